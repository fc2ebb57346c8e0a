// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/tailorcv/tailorcv/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCompanyInfo outputs a human-readable summary of the researched
// company profile.
func (p *Printer) PrintCompanyInfo(info *types.CompanyInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", info.Name))
	if info.Industry != "" {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", info.Industry))
	}

	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n")
		sb.WriteString(label)
		sb.WriteString(":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}

	writeList("Products", info.Products)
	writeList("Values", info.Values)
	writeList("Tech Stack", info.TechStack)

	p.printBox("COMPANY RESEARCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelection outputs which groups survived selection for one role or
// project.
func (p *Printer) PrintSelection(unit string, kept []string, total int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: kept %d of %d groups\n", unit, len(kept), total))

	count := min(len(kept), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", kept[i]))
	}
	if len(kept) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(kept)-maxItemsToShow))
	}

	p.printBox("GROUP SELECTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSentences outputs the constructed sentences of one role or project
// with their review outcomes.
func (p *Printer) PrintSentences(unit string, sentences []types.SentenceRecord) {
	if len(sentences) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s:\n\n", unit))

	count := min(len(sentences), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := sentences[i]
		text := s.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", text))

		status := "✓ approved"
		if !s.Approved {
			status = "⚠ accepted with reservations"
		}
		sb.WriteString(fmt.Sprintf("  [%s, %d attempt(s)]\n", status, s.Attempts))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(sentences) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more sentences", len(sentences)-maxItemsToShow))
	}

	p.printBox("CONSTRUCTED SENTENCES", sb.String())
}

// PrintContentReview outputs the whole-document critique.
func (p *Printer) PrintContentReview(review *types.ContentReview) {
	if review == nil {
		return
	}

	var sb strings.Builder
	if review.OverallAlignment != "" {
		sb.WriteString(review.OverallAlignment)
		sb.WriteString("\n")
	}

	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n")
		sb.WriteString(label)
		sb.WriteString(":\n")
		count := min(len(items), 3)
		for i := 0; i < count; i++ {
			item := items[i]
			if len(item) > 50 {
				item = item[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", item))
		}
		if len(items) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-3))
		}
	}

	writeList("Skills covered", review.KeySkills.Covered)
	writeList("Skills missing", review.KeySkills.Missing)
	writeList("Redundancies", review.Redundancies)
	writeList("Suggested improvements", review.SuggestedImprovement)

	if len(review.TitleRecommendations) > 0 {
		sb.WriteString("\nTitle recommendations:\n")
		for company, title := range review.TitleRecommendations {
			sb.WriteString(fmt.Sprintf("  • %s → %s\n", company, title))
		}
	}

	p.printBox("CONTENT REVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs accumulated degradation warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d warning(s):\n\n", len(warnings)))
	for i, w := range warnings {
		if len(w) > 50 {
			w = w[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("WARNINGS", sb.String())
}
