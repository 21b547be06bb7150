package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/talentscout"
	"github.com/aretw0/talentscout/pkg/adapters/memory"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/observability"
	"github.com/aretw0/talentscout/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FullSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	gw, err := memory.NewGatewayFromBank(memory.SampleBank())
	require.NoError(t, err)
	failingWriter := ports.PersistenceWriterFunc(func(context.Context, *domain.SessionState) error {
		return errors.New("disk full")
	})
	engine, err := talentscout.New(
		talentscout.WithGateway(gw),
		talentscout.WithWriter(failingWriter),
		talentscout.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	state, err := engine.Start(ctx, "m-1")
	require.NoError(t, err)
	for range domain.InfoStages {
		state, err = engine.Handle(ctx, state, domain.TextInput("x"))
		require.NoError(t, err)
	}
	state, err = engine.Handle(ctx, state, domain.SelectInput(state.Questions[0].Options[0]))
	require.NoError(t, err)
	_, err = engine.Handle(ctx, state, domain.ExitInput())
	assert.ErrorIs(t, err, domain.ErrPersistenceWriteFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsFinished.WithLabelValues("exited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QuestionGeneration.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnswersRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportFlush.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.GatewayDuration))
}

func TestMetrics_GenerationFailure(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks()
	hooks.OnGeneration(context.Background(), &domain.GenerationEvent{IsError: true, Error: "malformed"})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QuestionGeneration.WithLabelValues("error")))
}

func TestCombine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	calls := 0
	counting := domain.LifecycleHooks{
		OnAnswer: func(context.Context, *domain.AnswerEvent) { calls++ },
	}
	hooks := observability.Combine(counting, observability.AuditHooks(logger))

	hooks.OnAnswer(context.Background(), &domain.AnswerEvent{Index: 2, Category: "Go"})
	hooks.OnPhaseChange(context.Background(), &domain.PhaseEvent{From: domain.PhaseIdle, To: domain.PhaseCollectingInfo})

	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "answer_recorded")
	assert.Contains(t, buf.String(), "category=Go")
	assert.Contains(t, buf.String(), "to=collecting_info")
}
