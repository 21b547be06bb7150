package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewSessionState(sessionID)
		state.Phase = domain.PhaseAnsweringQuestions
		state.Profile = state.Profile.Set(domain.FieldName, "Ada").Set(domain.FieldTechStack, "Python, SQL")
		state.Questions = domain.QuestionBank{
			{Question: "Q1", Options: []string{"a", "b", "c", "d"}, Category: "Python"},
		}
		state.Answers = append(state.Answers, domain.AnswerRecord{Question: "Q1", SelectedOption: "b"})
		state.Index = 1

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.PhaseAnsweringQuestions, loaded.Phase)
		assert.Equal(t, state.Profile, loaded.Profile, "profile order must survive a round trip")
		assert.Equal(t, state.Questions, loaded.Questions)
		assert.Equal(t, state.Answers, loaded.Answers)
		assert.Equal(t, 1, loaded.Index)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		state := domain.NewSessionState(sessionID)
		state.Phase = domain.PhaseExited
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseExited, loaded.Phase)
		assert.Empty(t, loaded.Answers)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSessionState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSessionState(id1))
		_ = store.Save(ctx, id2, domain.NewSessionState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
