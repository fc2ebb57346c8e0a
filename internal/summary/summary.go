// Package summary reviews the assembled resume content against the job
// description and writes the professional summary section.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/types"
)

// FallbackSummary is used when summary generation fails outright. Bland but
// safe; never fabricates specifics.
const FallbackSummary = "Experienced professional with a track record of delivering reliable software and systems."

// Generator produces the content review and the summary paragraph.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// ReviewContent critiques the tailored resume as a whole. The review is
// advisory: a failure here must not block assembly, so callers should treat
// an error as "no review available".
func (g *Generator) ReviewContent(ctx context.Context, jobDescription, resumeContent string) (*types.ContentReview, error) {
	prompt := prompts.Format(
		prompts.MustGet("summary.json", "review-content"),
		map[string]string{
			"JobDescription": jobDescription,
			"ResumeContent":  resumeContent,
		},
	)

	resp, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("content review failed: %w", err)
	}

	var review types.ContentReview
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &review); err != nil {
		return nil, fmt.Errorf("content review returned invalid JSON: %w", err)
	}
	return &review, nil
}

// GenerateSummary writes the summary paragraph. review may be nil; its notes
// only sharpen the prompt. Failures degrade to FallbackSummary with a
// warning.
func (g *Generator) GenerateSummary(ctx context.Context, jobDescription, resumeContent string, review *types.ContentReview) (string, []string) {
	prompt := prompts.Format(
		prompts.MustGet("summary.json", "generate-summary"),
		map[string]string{
			"JobDescription": jobDescription,
			"ResumeContent":  resumeContent,
			"ReviewNotes":    reviewNotes(review),
		},
	)

	resp, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return FallbackSummary, []string{fmt.Sprintf("summary generation failed, using fallback: %v", err)}
	}

	text := llm.StripWrappingQuotes(strings.TrimSpace(resp))
	if text == "" {
		return FallbackSummary, []string{"summary generation returned empty content, using fallback"}
	}
	return text, nil
}

// reviewNotes flattens the parts of a content review that matter for the
// summary prompt.
func reviewNotes(review *types.ContentReview) string {
	if review == nil {
		return "No reviewer notes available."
	}

	var sb strings.Builder
	if review.OverallAlignment != "" {
		sb.WriteString(review.OverallAlignment)
		sb.WriteString("\n")
	}
	if len(review.KeySkills.Covered) > 0 {
		fmt.Fprintf(&sb, "Skills demonstrated: %s\n", strings.Join(review.KeySkills.Covered, ", "))
	}
	if len(review.KeySkills.Missing) > 0 {
		fmt.Fprintf(&sb, "Skills the posting asks for but the resume does not show: %s\n", strings.Join(review.KeySkills.Missing, ", "))
	}
	if review.NarrativeAssessment != "" {
		sb.WriteString(review.NarrativeAssessment)
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "No reviewer notes available."
	}
	return sb.String()
}
