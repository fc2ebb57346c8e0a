package selection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
)

// TitleSelector picks the job-title variant best suited to a posting.
type TitleSelector struct {
	client llm.Client
}

// NewTitleSelector creates a TitleSelector backed by the given client.
func NewTitleSelector(client llm.Client) *TitleSelector {
	return &TitleSelector{client: client}
}

// SelectTitle chooses one of the role's title variants. A single variant is
// returned as-is without a model call; any failure falls back to the first
// variant with a warning.
func (s *TitleSelector) SelectTitle(ctx context.Context, jobDescription, company string, variants []string) (string, []string) {
	if len(variants) == 0 {
		return "", nil
	}
	if len(variants) == 1 {
		return variants[0], nil
	}

	var listing strings.Builder
	for i, title := range variants {
		fmt.Fprintf(&listing, "%d. %s\n", i+1, title)
	}

	prompt := prompts.Format(
		prompts.MustGet("selection.json", "select-title"),
		map[string]string{
			"JobDescription": jobDescription,
			"Company":        company,
			"Titles":         listing.String(),
		},
	)

	resp, err := s.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		warning := fmt.Sprintf("title selection for %s failed, using %q: %v", company, variants[0], err)
		return variants[0], []string{warning}
	}

	if title, ok := matchTitle(resp, variants); ok {
		return title, nil
	}

	warning := fmt.Sprintf("title selection for %s returned %q which matches no variant, using %q", company, strings.TrimSpace(resp), variants[0])
	return variants[0], []string{warning}
}

// matchTitle maps a model response back onto one of the variants: exact or
// substring match first, then a 1-based index.
func matchTitle(resp string, variants []string) (string, bool) {
	answer := strings.ToLower(llm.StripWrappingQuotes(strings.TrimSpace(resp)))
	if answer == "" {
		return "", false
	}

	for _, v := range variants {
		if strings.ToLower(v) == answer {
			return v, true
		}
	}
	for _, v := range variants {
		lower := strings.ToLower(v)
		if strings.Contains(answer, lower) || strings.Contains(lower, answer) {
			return v, true
		}
	}

	if m := numberPattern.FindString(answer); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= len(variants) {
			return variants[n-1], true
		}
	}
	return "", false
}
