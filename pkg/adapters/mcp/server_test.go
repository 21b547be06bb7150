package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/talentscout"
	"github.com/aretw0/talentscout/pkg/adapters/memory"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Writer) {
	t.Helper()
	gw, err := memory.NewGatewayFromBank(memory.SampleBank())
	require.NoError(t, err)
	writer := memory.NewWriter()
	engine, err := talentscout.New(talentscout.WithGateway(gw), talentscout.WithWriter(writer))
	require.NoError(t, err)
	return NewServer(engine, session.NewManager(memory.NewStore())), writer
}

func TestStartAndGet(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	started, err := s.handleStart(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "cand-1"})
	require.NoError(t, err)
	assert.Equal(t, "cand-1", started.State.SessionID)
	assert.Equal(t, domain.PhaseCollectingInfo, started.State.Phase)

	again, err := s.handleStart(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "cand-1"})
	require.NoError(t, err)
	assert.Equal(t, started.State.StartedAt, again.State.StartedAt, "existing session is resumed")

	got, err := s.handleGet(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "cand-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Actions)

	_, err = s.handleGet(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStart_GeneratesID(t *testing.T) {
	s, _ := newTestServer(t)
	resp, err := s.handleStart(context.Background(), mcp.CallToolRequest{}, SessionArgs{})
	require.NoError(t, err)
	assert.Len(t, resp.State.SessionID, 36)
}

func TestSubmitInput_FullRun(t *testing.T) {
	s, writer := newTestServer(t)
	ctx := context.Background()
	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "c"})
	require.NoError(t, err)

	rejected, err := s.handleInput(ctx, mcp.CallToolRequest{}, InputArgs{SessionID: "c", Type: "text", Value: ""})
	require.NoError(t, err, "engine rejections are reported in the result")
	assert.Equal(t, domain.KindEmptyFieldSubmitted, rejected.Kind)

	var resp = rejected
	for range domain.InfoStages {
		resp, err = s.handleInput(ctx, mcp.CallToolRequest{}, InputArgs{SessionID: "c", Type: "text", Value: "Go"})
		require.NoError(t, err)
	}
	require.Equal(t, domain.PhaseAnsweringQuestions, resp.State.Phase)

	for i := 0; i < domain.QuestionCount; i++ {
		option := resp.State.Questions[i].Options[1]
		resp, err = s.handleInput(ctx, mcp.CallToolRequest{}, InputArgs{SessionID: "c", Type: "select", Value: option})
		require.NoError(t, err)
		assert.Empty(t, resp.Error)
	}
	assert.True(t, resp.Terminal)
	assert.Equal(t, domain.PhaseCompleted, resp.State.Phase)

	_, ok := writer.Report("c")
	assert.True(t, ok)
}

func TestExitScreening(t *testing.T) {
	s, writer := newTestServer(t)
	ctx := context.Background()
	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "c"})
	require.NoError(t, err)

	resp, err := s.handleExit(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "c"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseExited, resp.State.Phase)
	_, ok := writer.Report("c")
	assert.True(t, ok)

	resp, err = s.handleExit(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "c"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindSessionTerminated, resp.Kind)

	_, err = s.handleExit(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "ghost"})
	assert.Error(t, err)
}
