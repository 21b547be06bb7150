package screening

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T, m *Machine) *domain.SessionState {
	t.Helper()
	s, err := m.Start(context.Background(), domain.NewSessionState("s1"))
	require.NoError(t, err)
	return s
}

func collectAll(t *testing.T, m *Machine, values []string) *domain.SessionState {
	t.Helper()
	s := started(t, m)
	for _, v := range values {
		var err error
		s, err = m.AdvanceInfo(context.Background(), s, v)
		require.NoError(t, err)
	}
	return s
}

func TestStart(t *testing.T) {
	m := New(&fakeGateway{})
	idle := domain.NewSessionState("s1")

	s, err := m.Start(context.Background(), idle)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCollectingInfo, s.Phase)
	assert.Equal(t, 0, s.Stage)
	assert.Equal(t, Greeting, s.Transcript[0].Content)
	assert.Equal(t, domain.PhaseIdle, idle.Phase, "input snapshot must not change")

	_, err = m.Start(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAdvanceInfo_CollectsSevenFieldsInOrder(t *testing.T) {
	m := New(&fakeGateway{})
	s := collectAll(t, m, adaFields)

	assert.Equal(t, domain.PhaseGeneratingQuestions, s.Phase)
	assert.Equal(t, len(domain.InfoStages), s.Stage)
	require.Equal(t, 7, s.Profile.Len())
	for i, stage := range domain.InfoStages {
		assert.Equal(t, stage.Key, s.Profile[i].Key)
		assert.Equal(t, adaFields[i], s.Profile[i].Value)
	}

	var acks []string
	for _, msg := range s.Transcript[1:] {
		if msg.Role == domain.RoleAssistant {
			acks = append(acks, msg.Content)
		}
	}
	require.Len(t, acks, 7)
	assert.Equal(t, "Wow! Ada, such a lovely name! I'm thrilled to meet you.", acks[0])
	assert.Equal(t, "3 years of experience.", acks[3])
	assert.Equal(t, "With a tech stack like Python, SQL, you're surely a strong candidate!", acks[6])
}

func TestAdvanceInfo_EmptyNeverAdvances(t *testing.T) {
	m := New(&fakeGateway{})
	s := started(t, m)
	s, err := m.AdvanceInfo(context.Background(), s, "Ada")
	require.NoError(t, err)

	for _, v := range []string{"", "   ", "\t\n"} {
		next, err := m.AdvanceInfo(context.Background(), s, v)
		assert.ErrorIs(t, err, domain.ErrEmptyFieldSubmitted)
		assert.Same(t, s, next)
		assert.Equal(t, 1, next.Stage)
		assert.Equal(t, 1, next.Profile.Len())
	}
}

func TestAdvanceInfo_TrimsValue(t *testing.T) {
	m := New(&fakeGateway{})
	s, err := m.AdvanceInfo(context.Background(), started(t, m), "  Ada  ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.Profile.Value(domain.FieldName))
}

func TestAdvanceInfo_WrongPhase(t *testing.T) {
	m := New(&fakeGateway{})
	_, err := m.AdvanceInfo(context.Background(), domain.NewSessionState("s1"), "Ada")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGenerateQuestions_Success(t *testing.T) {
	gw := &fakeGateway{response: sampleResponse()}
	cache := &fakeCache{}
	m := New(gw, WithQuestionCache(cache))
	s := collectAll(t, m, adaFields)

	next, err := m.GenerateQuestions(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAnsweringQuestions, next.Phase)
	assert.Equal(t, 0, next.Index)
	require.Len(t, next.Questions, domain.QuestionCount)
	for _, q := range next.Questions {
		assert.Len(t, q.Options, domain.OptionCount)
	}
	assert.Nil(t, s.Questions, "input snapshot must not change")
	assert.Equal(t, next.Questions, cache.banks["s1"])
}

func TestGenerateQuestions_MalformedKeepsPhase(t *testing.T) {
	cases := map[string]string{
		"not json":       "here are your questions",
		"prose around":   "Sure! " + sampleResponse(),
		"four questions": `[{"question":"q","options":["a","b","c","d"],"category":"c"},{"question":"q","options":["a","b","c","d"],"category":"c"},{"question":"q","options":["a","b","c","d"],"category":"c"},{"question":"q","options":["a","b","c","d"],"category":"c"}]`,
		"fenced":         "```json\n" + sampleResponse() + "\n```",
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			m := New(&fakeGateway{response: resp})
			s := collectAll(t, m, adaFields)

			next, err := m.GenerateQuestions(context.Background(), s)
			assert.ErrorIs(t, err, domain.ErrQuestionGenerationFailed)
			assert.Equal(t, domain.PhaseGeneratingQuestions, next.Phase)
			assert.Nil(t, next.Questions)
			assert.NotEmpty(t, next.LastError)
		})
	}
}

func TestGenerateQuestions_GatewayError(t *testing.T) {
	cause := errors.New("connection refused")
	gw := &fakeGateway{err: cause}
	m := New(gw)
	s := collectAll(t, m, adaFields)

	next, err := m.GenerateQuestions(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrQuestionGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, next.Questions)
	assert.Equal(t, 1, gw.calls(), "no automatic retry")
}

func TestGenerateQuestions_StripFencesOptIn(t *testing.T) {
	m := New(&fakeGateway{response: "```json\n" + sampleResponse() + "\n```"}, WithStripCodeFences(true))
	next, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)
	assert.Len(t, next.Questions, domain.QuestionCount)
}

func TestRecordAnswer_InvalidOptionLeavesState(t *testing.T) {
	m := New(&fakeGateway{response: sampleResponse()})
	s, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)
	s, err = m.RecordAnswer(context.Background(), s, "B")
	require.NoError(t, err)

	for _, opt := range []string{"E", "", "b"} {
		next, err := m.RecordAnswer(context.Background(), s, opt)
		assert.ErrorIs(t, err, domain.ErrInvalidOptionSelected)
		assert.Equal(t, 1, next.Index)
		assert.Len(t, next.Answers, 1)
	}
}

func TestRecordAnswer_CompletesAndFlushesOnce(t *testing.T) {
	w := &fakeWriter{}
	pub := &fakePublisher{}
	m := New(&fakeGateway{response: sampleResponse()}, WithWriter(w), WithPublisher(pub))
	s, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)

	for i := 0; i < domain.QuestionCount; i++ {
		s, err = m.RecordAnswer(context.Background(), s, "C")
		require.NoError(t, err)
	}

	assert.Equal(t, domain.PhaseCompleted, s.Phase)
	assert.Len(t, s.Answers, domain.QuestionCount)
	assert.Equal(t, domain.QuestionCount, s.Index)
	assert.True(t, s.Flushed)
	require.Len(t, w.reports, 1)
	assert.Contains(t, w.reports[0], "Question: Question about topic 5?\nAnswer: C\n\n")
	assert.Len(t, pub.events, 1, "publish failures are logged, not returned")

	_, err = m.RecordAnswer(context.Background(), s, "C")
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
	_, err = m.ExitNow(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
	assert.Len(t, w.reports, 1)
}

func TestRecordAnswer_TranscriptLines(t *testing.T) {
	m := New(&fakeGateway{response: sampleResponse()})
	s, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)
	s, err = m.RecordAnswer(context.Background(), s, "A")
	require.NoError(t, err)

	last := s.Transcript[len(s.Transcript)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, "Question 1 - Your choice: A", last.Content)
}

func TestExitNow_PersistenceFailureStillTerminal(t *testing.T) {
	w := &fakeWriter{err: errors.New("disk full")}
	m := New(&fakeGateway{}, WithWriter(w))

	s, err := m.ExitNow(context.Background(), started(t, m))
	assert.ErrorIs(t, err, domain.ErrPersistenceWriteFailed)
	require.NotNil(t, s)
	assert.Equal(t, domain.PhaseExited, s.Phase)
	assert.False(t, s.Flushed)
	assert.Len(t, w.reports, 1)
}

func TestExitNow_FromIdle(t *testing.T) {
	w := &fakeWriter{}
	m := New(&fakeGateway{}, WithWriter(w))
	s, err := m.ExitNow(context.Background(), domain.NewSessionState("s1"))
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseExited, s.Phase)
	assert.Equal(t, "Candidate Details:\n\nMCQ Responses:\n", w.reports[0])
}

func TestHandle_Routing(t *testing.T) {
	ctx := context.Background()
	m := New(&fakeGateway{response: sampleResponse()})
	s := started(t, m)

	_, err := m.Handle(ctx, s, domain.SelectInput("A"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = m.Handle(ctx, s, domain.RetryInput())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, v := range adaFields {
		s, err = m.Handle(ctx, s, domain.TextInput(v))
		require.NoError(t, err)
	}
	assert.Equal(t, domain.PhaseAnsweringQuestions, s.Phase, "last field triggers generation in the same cycle")

	_, err = m.Handle(ctx, s, domain.TextInput("A"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	s, err = m.Handle(ctx, s, domain.SelectInput("A"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)

	s, err = m.Handle(ctx, s, domain.ExitInput())
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseExited, s.Phase)

	_, err = m.Handle(ctx, s, domain.TextInput("x"))
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
}

func TestHandle_RetryAfterFailedGeneration(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{err: errors.New("timeout")}
	m := New(gw)
	s := started(t, m)

	var err error
	for _, v := range adaFields {
		s, err = m.Handle(ctx, s, domain.TextInput(v))
	}
	require.ErrorIs(t, err, domain.ErrQuestionGenerationFailed)
	assert.Equal(t, domain.PhaseGeneratingQuestions, s.Phase)
	assert.Equal(t, 7, s.Profile.Len(), "collected fields survive the failure")

	gw.err = nil
	gw.response = sampleResponse()
	s, err = m.Handle(ctx, s, domain.RetryInput())
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAnsweringQuestions, s.Phase)
	assert.Empty(t, s.LastError)
	assert.Equal(t, 2, gw.calls())
}

func TestHooks(t *testing.T) {
	var phases []string
	var gatewayCalls, generated, answers, flushes int
	hooks := domain.LifecycleHooks{
		OnPhaseChange: func(_ context.Context, e *domain.PhaseEvent) {
			phases = append(phases, string(e.From)+">"+string(e.To))
		},
		OnGatewayCall: func(context.Context, *domain.GatewayEvent) { gatewayCalls++ },
		OnGeneration: func(_ context.Context, e *domain.GenerationEvent) {
			if !e.IsError {
				generated += e.Questions
			}
		},
		OnAnswer: func(context.Context, *domain.AnswerEvent) { answers++ },
		OnFlush:  func(context.Context, *domain.FlushEvent) { flushes++ },
	}
	m := New(&fakeGateway{response: sampleResponse()}, WithLifecycleHooks(hooks))
	s, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)
	for i := 0; i < domain.QuestionCount; i++ {
		s, err = m.RecordAnswer(context.Background(), s, "D")
		require.NoError(t, err)
	}

	assert.Equal(t, "idle>collecting_info,collecting_info>generating_questions,generating_questions>answering_questions,answering_questions>completed",
		strings.Join(phases, ","))
	assert.Equal(t, 1, gatewayCalls)
	assert.Equal(t, domain.QuestionCount, generated)
	assert.Equal(t, domain.QuestionCount, answers)
	assert.Equal(t, 1, flushes)
}

func TestScenario_AdaReachesQuestions(t *testing.T) {
	gw := &fakeGateway{response: sampleResponse()}
	m := New(gw)
	s := collectAll(t, m, adaFields)
	require.Equal(t, domain.PhaseGeneratingQuestions, s.Phase)

	s, err := m.GenerateQuestions(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, 1, gw.calls())

	prompt := gw.prompts[0]
	assert.Contains(t, prompt, `"candidate_tech_stack":"Python, SQL"`)
	assert.Contains(t, prompt, "preferred job position Engineer")
	assert.Contains(t, prompt, "experience of 3 years")
	assert.Equal(t, domain.PhaseAnsweringQuestions, s.Phase)
	assert.Equal(t, 0, s.Index)
}

func TestScenario_ExitAfterThreeFields(t *testing.T) {
	w := &fakeWriter{}
	m := New(&fakeGateway{}, WithWriter(w))
	s := collectAll(t, m, adaFields[:3])

	s, err := m.ExitNow(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseExited, s.Phase)
	require.Len(t, w.reports, 1)
	assert.Equal(t,
		"Candidate Details:\nName: Ada\nEmail: a@x.com\nPhone: 555\n\nMCQ Responses:\n",
		w.reports[0])
}
