package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/talentscout/pkg/adapters/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
	reply  string
	err    error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	f.prompt = contents[0].Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func TestGateway_Predict(t *testing.T) {
	fake := &fakeModels{reply: "[]"}
	gw := gemini.NewWithGenerator(fake, "", 0.2)

	out, err := gw.Predict(context.Background(), "make questions")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Equal(t, gemini.DefaultModel, fake.model)
	assert.Equal(t, "make questions", fake.prompt)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.2, *fake.config.Temperature, 1e-6)
}

func TestGateway_PredictError(t *testing.T) {
	boom := errors.New("quota exceeded")
	gw := gemini.NewWithGenerator(&fakeModels{err: boom}, "gemini-2.5-pro", 0)

	_, err := gw.Predict(context.Background(), "p")
	assert.ErrorIs(t, err, boom)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := gemini.New(context.Background(), "", "", 0)
	assert.Error(t, err)
}
