package tailor

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-search-assistant/internal/llm"
	"github.com/jonathan/job-search-assistant/internal/session"
)

// LLM asks a language model for the tailored text.
type LLM struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLM returns a generator that prompts client at the standard tier.
func NewLLM(client llm.Client) *LLM {
	return &LLM{client: client, tier: llm.TierStandard}
}

// Name implements Generator.
func (g *LLM) Name() string { return "llm" }

// Tailor implements Generator.
func (g *LLM) Tailor(ctx context.Context, job session.Listing, resume *session.Resume) (string, error) {
	text, err := g.client.GenerateContent(ctx, BuildPrompt(job, resume), g.tier)
	if err != nil {
		return "", &Error{Generator: g.Name(), Job: job, Cause: err}
	}
	text = llm.StripCodeFence(text)
	if text == "" {
		return "", &Error{Generator: g.Name(), Job: job, Cause: fmt.Errorf("empty response")}
	}
	return text, nil
}

// BuildPrompt writes the tailoring prompt. Only the resume's display name is
// known; its contents are never read.
func BuildPrompt(job session.Listing, resume *session.Resume) string {
	var sb strings.Builder
	sb.WriteString("You help a candidate tailor their resume to a job listing.\n")
	sb.WriteString(fmt.Sprintf("Job listing: %s\n", job))
	if resume != nil {
		sb.WriteString(fmt.Sprintf("Resume file: %s\n", resume.Name))
	} else {
		sb.WriteString("No resume has been uploaded.\n")
	}
	sb.WriteString("\nWrite a short plain-text note that starts with the line ")
	sb.WriteString(fmt.Sprintf("\"Tailored resume for %s:\" ", job))
	sb.WriteString("followed by a blank line and two or three sentences on which skills and experiences to highlight for this position. ")
	sb.WriteString("Do not use markdown.")
	return sb.String()
}
