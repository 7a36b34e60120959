package tailor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search-assistant/internal/llm"
	"github.com/jonathan/job-search-assistant/internal/session"
)

func TestTemplate_Tailor(t *testing.T) {
	g := NewTemplate()

	text, err := g.Tailor(context.Background(), "React Developer at AppMakers", nil)
	require.NoError(t, err)
	assert.Equal(t,
		"Tailored resume for React Developer at AppMakers:\n\nYour resume has been optimized to highlight skills and experiences relevant to this position.",
		text)
	assert.Equal(t, "template", g.Name())
}

func TestTemplate_IgnoresResume(t *testing.T) {
	g := NewTemplate()

	withResume, err := g.Tailor(context.Background(), "x", &session.Resume{Name: "resume.pdf"})
	require.NoError(t, err)
	withoutResume, err := g.Tailor(context.Background(), "x", nil)
	require.NoError(t, err)

	assert.Equal(t, withoutResume, withResume)
	assert.Contains(t, withResume, "x")
}

// fakeClient records the prompt and returns a canned response.
type fakeClient struct {
	response string
	err      error

	prompt string
	tier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompt = prompt
	f.tier = tier
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestLLM_Tailor(t *testing.T) {
	client := &fakeClient{response: "```\nTailored resume for SRE at Initech:\n\nHighlight on-call work.\n```"}
	g := NewLLM(client)

	text, err := g.Tailor(context.Background(), "SRE at Initech", &session.Resume{Name: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Tailored resume for SRE at Initech:\n\nHighlight on-call work.", text)
	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, "Job listing: SRE at Initech")
	assert.Contains(t, client.prompt, "Resume file: cv.pdf")
}

func TestLLM_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")

	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"client error", &fakeClient{err: boom}},
		{"empty response", &fakeClient{response: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLM(tt.client).Tailor(context.Background(), "x", nil)
			require.Error(t, err)

			var tailorErr *Error
			require.ErrorAs(t, err, &tailorErr)
			assert.Equal(t, "llm", tailorErr.Generator)
			assert.Equal(t, session.Listing("x"), tailorErr.Job)
		})
	}
}

func TestBuildPrompt_NoResume(t *testing.T) {
	prompt := BuildPrompt("Data Engineer at Hooli", nil)

	assert.Contains(t, prompt, "No resume has been uploaded.")
	assert.Contains(t, prompt, `"Tailored resume for Data Engineer at Hooli:"`)
}
