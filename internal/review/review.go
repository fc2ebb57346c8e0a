// Package review checks tailored bullet points before they reach the final
// resume. Cheap mechanical checks run first; only sentences that pass them
// are sent to the model for a quality review.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
)

const (
	// MinWords and MaxWords bound a reasonable resume bullet.
	MinWords = 8
	MaxWords = 35
)

// Result is the outcome of reviewing one sentence.
type Result struct {
	Approved bool
	Feedback string

	// Mechanical is set when the sentence was rejected before any model
	// call.
	Mechanical bool
}

// Reviewer validates tailored sentences.
type Reviewer struct {
	client llm.Client
}

// NewReviewer creates a Reviewer backed by the given client.
func NewReviewer(client llm.Client) *Reviewer {
	return &Reviewer{client: client}
}

// CheckMechanical runs the deterministic checks. It returns a rejection
// Result, or nil when the sentence passes and deserves a model review.
// Checks run in a fixed order so the same sentence always gets the same
// feedback.
func CheckMechanical(sentence string) *Result {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return &Result{Mechanical: true, Feedback: "The sentence is empty."}
	}

	words := len(strings.Fields(trimmed))
	if words < MinWords {
		return &Result{Mechanical: true, Feedback: fmt.Sprintf("The sentence has only %d words; resume bullets need at least %d.", words, MinWords)}
	}
	if words > MaxWords {
		return &Result{Mechanical: true, Feedback: fmt.Sprintf("The sentence has %d words; resume bullets must stay within %d.", words, MaxWords)}
	}

	if strings.ContainsAny(trimmed, "{}") {
		return &Result{Mechanical: true, Feedback: "The sentence still contains unfilled template placeholders."}
	}

	return nil
}

// Review validates a sentence, mechanically first and then with the model.
// A model failure or unparseable reply approves the sentence rather than
// blocking the pipeline.
func (r *Reviewer) Review(ctx context.Context, jobDescription, originalSentence, sentence string) Result {
	if rejection := CheckMechanical(sentence); rejection != nil {
		return *rejection
	}

	prompt := prompts.Format(
		prompts.MustGet("review.json", "review-sentence"),
		map[string]string{
			"JobDescription":   jobDescription,
			"OriginalSentence": originalSentence,
			"Sentence":         sentence,
		},
	)

	resp, err := r.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return Result{Approved: true, Feedback: fmt.Sprintf("review skipped: %v", err)}
	}

	approved, feedback, ok := parseReview(resp)
	if !ok {
		return Result{Approved: true, Feedback: "review skipped: unparseable reviewer response"}
	}
	return Result{Approved: approved, Feedback: feedback}
}

// parseReview extracts the APPROVED/FEEDBACK pair from a reviewer response.
func parseReview(resp string) (approved bool, feedback string, ok bool) {
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "APPROVED:"):
			value := strings.TrimSpace(line[len("APPROVED:"):])
			approved = strings.EqualFold(value, "yes")
			ok = true
		case strings.HasPrefix(upper, "FEEDBACK:"):
			feedback = strings.TrimSpace(line[len("FEEDBACK:"):])
		}
	}
	return approved, feedback, ok
}
