package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the screening collectors.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	SessionsFinished   *prometheus.CounterVec
	QuestionGeneration *prometheus.CounterVec
	GatewayDuration    prometheus.Histogram
	AnswersRecorded    prometheus.Counter
	ReportFlush        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talentscout_sessions_started_total",
			Help: "Sessions that entered info collection.",
		}),
		SessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentscout_sessions_finished_total",
			Help: "Sessions that reached a terminal phase.",
		}, []string{"phase"}),
		QuestionGeneration: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentscout_question_generation_total",
			Help: "Question generation attempts by result.",
		}, []string{"result"}),
		GatewayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentscout_gateway_duration_seconds",
			Help:    "Latency of model gateway calls.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		AnswersRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talentscout_answers_recorded_total",
			Help: "Multiple-choice answers recorded.",
		}),
		ReportFlush: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentscout_report_flush_total",
			Help: "Report writes by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsFinished,
		m.QuestionGeneration,
		m.GatewayDuration,
		m.AnswersRecorded,
		m.ReportFlush,
	)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseChange: func(_ context.Context, e *domain.PhaseEvent) {
			switch {
			case e.From == domain.PhaseIdle && e.To == domain.PhaseCollectingInfo:
				m.SessionsStarted.Inc()
			case e.To.Terminal():
				m.SessionsFinished.WithLabelValues(string(e.To)).Inc()
			}
		},
		OnGatewayCall: func(_ context.Context, e *domain.GatewayEvent) {
			m.GatewayDuration.Observe(e.Duration.Seconds())
		},
		OnGeneration: func(_ context.Context, e *domain.GenerationEvent) {
			m.QuestionGeneration.WithLabelValues(result(e.IsError)).Inc()
		},
		OnAnswer: func(context.Context, *domain.AnswerEvent) {
			m.AnswersRecorded.Inc()
		},
		OnFlush: func(_ context.Context, e *domain.FlushEvent) {
			m.ReportFlush.WithLabelValues(result(e.IsError)).Inc()
		},
	}
}

func result(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}

// AuditHooks logs every lifecycle event at info level (errors at warn).
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseChange: func(_ context.Context, e *domain.PhaseEvent) {
			logger.Info("phase_change", "session_id", e.SessionID, "from", e.From, "to", e.To)
		},
		OnGatewayCall: func(_ context.Context, e *domain.GatewayEvent) {
			if e.IsError {
				logger.Warn("gateway_call", "session_id", e.SessionID, "duration", e.Duration, "err", e.Error)
				return
			}
			logger.Info("gateway_call", "session_id", e.SessionID, "duration", e.Duration)
		},
		OnGeneration: func(_ context.Context, e *domain.GenerationEvent) {
			if e.IsError {
				logger.Warn("question_generation", "session_id", e.SessionID, "err", e.Error)
				return
			}
			logger.Info("question_generation", "session_id", e.SessionID, "questions", e.Questions)
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			logger.Info("answer_recorded", "session_id", e.SessionID, "index", e.Index, "category", e.Category)
		},
		OnFlush: func(_ context.Context, e *domain.FlushEvent) {
			if e.IsError {
				logger.Warn("report_flush", "session_id", e.SessionID, "phase", e.Phase, "err", e.Error)
				return
			}
			logger.Info("report_flush", "session_id", e.SessionID, "phase", e.Phase)
		},
	}
}

// Combine merges hooks so each event reaches every non-nil callback in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		out.OnPhaseChange = chain(out.OnPhaseChange, h.OnPhaseChange)
		out.OnGatewayCall = chain(out.OnGatewayCall, h.OnGatewayCall)
		out.OnGeneration = chain(out.OnGeneration, h.OnGeneration)
		out.OnAnswer = chain(out.OnAnswer, h.OnAnswer)
		out.OnFlush = chain(out.OnFlush, h.OnFlush)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
