package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	comps := newComponents(t, testConfig(t))

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, comps, &out))
	assert.Contains(t, out.String(), "No active sessions found.")

	require.NoError(t, RunSession(ctx, comps, RunOptions{SessionID: "s-1", Quiet: true}, strings.NewReader(candidate+"1\n1\n1\n1\n1\n"), &bytes.Buffer{}))
	require.NoError(t, RunSession(ctx, comps, RunOptions{SessionID: "s-2", Quiet: true}, strings.NewReader("Bob\n"), &bytes.Buffer{}))

	t.Run("ls", func(t *testing.T) {
		out.Reset()
		require.NoError(t, ListSessions(ctx, comps, &out))
		assert.Contains(t, out.String(), "SESSION")
		assert.Regexp(t, `s-1\s+completed\s+5/5 answers`, out.String())
		assert.Regexp(t, `s-2\s+exited\s+info 1/7`, out.String())
	})

	t.Run("inspect", func(t *testing.T) {
		out.Reset()
		require.NoError(t, InspectSession(ctx, comps, "s-2", &out))
		assert.Contains(t, out.String(), `"phase": "exited"`)
		assert.Contains(t, out.String(), `"value": "Bob"`)
	})

	t.Run("report text", func(t *testing.T) {
		out.Reset()
		require.NoError(t, PrintReport(ctx, comps, "s-1", false, &out))
		assert.True(t, strings.HasPrefix(out.String(), "Candidate Details:\nName: Ada\n"))
		assert.Contains(t, out.String(), "MCQ Responses:")
	})

	t.Run("report markdown", func(t *testing.T) {
		out.Reset()
		require.NoError(t, PrintReport(ctx, comps, "s-1", true, &out))
		assert.Contains(t, out.String(), "Ada")
		assert.Contains(t, out.String(), "#")
	})

	t.Run("rm", func(t *testing.T) {
		out.Reset()
		require.NoError(t, RemoveSession(ctx, comps, "s-2", &out))
		assert.Contains(t, out.String(), "Session 's-2' deleted.")

		err := InspectSession(ctx, comps, "s-2", &out)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestPrintGraph(t *testing.T) {
	ctx := context.Background()
	comps := newComponents(t, testConfig(t))
	require.NoError(t, RunSession(ctx, comps, RunOptions{SessionID: "g-1", Quiet: true}, strings.NewReader("Ada\nada@example.com\n"), &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, PrintGraph(ctx, comps, "", &out))
	assert.Contains(t, out.String(), "graph TD")
	assert.NotContains(t, out.String(), "classDef")

	out.Reset()
	require.NoError(t, PrintGraph(ctx, comps, "g-1", &out))
	assert.Contains(t, out.String(), "class info_email visited;")
	assert.Contains(t, out.String(), "class exited current;")

	assert.ErrorIs(t, PrintGraph(ctx, comps, "missing", &out), domain.ErrSessionNotFound)
}
