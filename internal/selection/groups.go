// Package selection picks the responsibility groups and job titles most
// relevant to a job description. Selection is fail-open: model failures
// surface as warnings and keep the original content, never as errors.
package selection

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/types"
)

// MinSelectionRatio is the fraction of a unit's groups that must survive
// selection. Trimming harder than this hollows out the resume.
const MinSelectionRatio = 0.6

// MinGroups returns the minimum number of groups to keep out of total.
func MinGroups(total int) int {
	if total <= 0 {
		return 0
	}
	m := int(math.Ceil(MinSelectionRatio * float64(total)))
	if m < 1 {
		m = 1
	}
	return m
}

// GroupSelector chooses which responsibility groups of a role or project to
// keep for a given job description.
type GroupSelector struct {
	client llm.Client
}

// NewGroupSelector creates a GroupSelector backed by the given client.
func NewGroupSelector(client llm.Client) *GroupSelector {
	return &GroupSelector{client: client}
}

var numberPattern = regexp.MustCompile(`\d+`)

// SelectGroups returns the names of the groups to keep, in the order they
// appear in groupNames. Selection never fails: a model or parse failure
// keeps every group and reports a warning instead.
func (s *GroupSelector) SelectGroups(ctx context.Context, jobDescription, unitTitle string, groupNames []string, groups map[string]*types.ResponsibilityGroup) ([]string, []string) {
	total := len(groupNames)
	if total == 0 {
		return nil, nil
	}

	minGroups := MinGroups(total)
	if minGroups >= total {
		// Everything must be kept anyway; no call needed.
		return append([]string(nil), groupNames...), nil
	}

	var listing strings.Builder
	for i, name := range groupNames {
		fmt.Fprintf(&listing, "%d. %s\n", i+1, groups[name].OriginalSentence)
	}

	prompt := prompts.Format(
		prompts.MustGet("selection.json", "select-groups"),
		map[string]string{
			"JobDescription": jobDescription,
			"RoleTitle":      unitTitle,
			"Groups":         listing.String(),
			"MinGroups":      strconv.Itoa(minGroups),
			"TotalGroups":    strconv.Itoa(total),
		},
	)

	resp, err := s.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		warning := fmt.Sprintf("group selection for %q failed, keeping all groups: %v", unitTitle, err)
		return append([]string(nil), groupNames...), []string{warning}
	}

	selected := parseSelection(resp, total)
	if len(selected) == 0 {
		warning := fmt.Sprintf("group selection for %q returned nothing usable, keeping all groups", unitTitle)
		return append([]string(nil), groupNames...), []string{warning}
	}

	var warnings []string
	if topUp(selected, total, minGroups) {
		warnings = append(warnings, fmt.Sprintf("group selection for %q kept too few groups, topping up to %d", unitTitle, minGroups))
	}

	kept := make([]string, 0, len(selected))
	for i, name := range groupNames {
		if selected[i+1] {
			kept = append(kept, name)
		}
	}
	return kept, warnings
}

// parseSelection extracts the chosen 1-based group numbers from a model
// response, dropping duplicates and out-of-range values.
func parseSelection(resp string, total int) map[int]bool {
	selected := make(map[int]bool)
	for _, token := range numberPattern.FindAllString(resp, -1) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > total {
			continue
		}
		selected[n] = true
	}
	return selected
}

// topUp adds unselected groups in listing order until the minimum is met.
// Reports whether anything was added.
func topUp(selected map[int]bool, total, minGroups int) bool {
	added := false
	for n := 1; len(selected) < minGroups && n <= total; n++ {
		if !selected[n] {
			selected[n] = true
			added = true
		}
	}
	return added
}
