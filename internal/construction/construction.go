// Package construction rebuilds resume bullet points from their sentence
// templates, tailored to a job description.
package construction

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/types"
)

// Constructor fills a group's sentence template with the phrase variants
// most relevant to the job description.
type Constructor struct {
	client llm.Client
}

// NewConstructor creates a Constructor backed by the given client.
func NewConstructor(client llm.Client) *Constructor {
	return &Constructor{client: client}
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Result is the outcome of constructing one sentence.
type Result struct {
	Sentence string

	// Deterministic is set when no model call was made (or could help):
	// the original sentence came back verbatim or the template was filled
	// with default candidates. Retrying a deterministic result changes
	// nothing.
	Deterministic bool

	Warnings []string
}

// Construct builds the tailored sentence for a group. Groups without a
// usable template pass their original sentence through untouched. A model
// failure falls back to filling the template with each placeholder's first
// candidate.
//
// actionVerb, when non-empty, is the verb the sentence must start with.
// feedback, when non-empty, is reviewer feedback from a previous attempt.
func (c *Constructor) Construct(ctx context.Context, jobDescription string, group *types.ResponsibilityGroup, actionVerb, feedback string) Result {
	template := strings.TrimSpace(group.ModularSentence)
	if template == "" || len(group.Variables) == 0 {
		return Result{Sentence: group.OriginalSentence, Deterministic: true}
	}

	placeholders := placeholderPattern.FindAllStringSubmatch(template, -1)
	if len(placeholders) == 0 {
		return Result{Sentence: group.OriginalSentence, Deterministic: true}
	}
	for _, m := range placeholders {
		if len(group.Variables[m[1]]) == 0 {
			warning := fmt.Sprintf("template references %q which has no candidates, keeping original sentence", m[1])
			return Result{Sentence: group.OriginalSentence, Deterministic: true, Warnings: []string{warning}}
		}
	}

	prompt := prompts.Format(
		prompts.MustGet("construction.json", "construct-sentence"),
		map[string]string{
			"JobDescription":   jobDescription,
			"OriginalSentence": group.OriginalSentence,
			"Template":         template,
			"Variables":        formatVariables(group.Variables),
			"ActionVerb":       actionVerb,
			"Feedback":         formatFeedback(feedback),
		},
	)

	resp, err := c.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		warning := fmt.Sprintf("sentence construction failed, using default candidates: %v", err)
		return Result{
			Sentence:      fillWithDefaults(template, group.Variables),
			Deterministic: true,
			Warnings:      []string{warning},
		}
	}

	sentence := llm.StripWrappingQuotes(strings.TrimSpace(resp))
	if sentence == "" {
		return Result{
			Sentence:      fillWithDefaults(template, group.Variables),
			Deterministic: true,
			Warnings:      []string{"sentence construction returned empty content, using default candidates"},
		}
	}
	return Result{Sentence: sentence}
}

// formatVariables renders the candidate lists in a stable order.
func formatVariables(variables map[string][]string) string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "- {%s}: %s\n", name, strings.Join(variables[name], "; "))
	}
	return sb.String()
}

func formatFeedback(feedback string) string {
	if strings.TrimSpace(feedback) == "" {
		return ""
	}
	return "\nA previous attempt was rejected with this feedback, address it:\n" + feedback + "\n"
}

// fillWithDefaults substitutes each placeholder with its first candidate.
func fillWithDefaults(template string, variables map[string][]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		candidates := variables[name]
		if len(candidates) == 0 {
			return match
		}
		return candidates[0]
	})
}
