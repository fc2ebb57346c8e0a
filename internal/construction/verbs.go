package construction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/types"
)

// MaxVerbUses is how many times one action verb may lead a bullet point
// across the whole resume.
const MaxVerbUses = 2

// VerbEntry is one bullet point participating in action-verb planning.
type VerbEntry struct {
	ID               string
	OriginalSentence string
	Candidates       []string
}

// VerbUnit groups the entries of one role or project. Verbs must not repeat
// within a unit.
type VerbUnit struct {
	Name    string
	Entries []VerbEntry
}

// VerbCandidates extracts a group's candidate action verbs from its
// variables. Groups without an action-verb variable do not participate in
// planning.
func VerbCandidates(group *types.ResponsibilityGroup) []string {
	for _, key := range []string{"action_verbs", "action_verb"} {
		if vs := group.Variables[key]; len(vs) > 0 {
			return vs
		}
	}
	return nil
}

// PlanActionVerbs assigns a leading verb to every entry in a single batched
// model call. Entries the plan leaves out, or whose assignment violates the
// repetition rules, are dropped from the returned plan; their sentences fall
// back to per-sentence verb choice.
func (c *Constructor) PlanActionVerbs(ctx context.Context, jobDescription string, units []VerbUnit) (types.VerbPlan, []string) {
	plannable := 0
	for _, unit := range units {
		for _, entry := range unit.Entries {
			if len(entry.Candidates) > 0 {
				plannable++
			}
		}
	}
	if plannable == 0 {
		return nil, nil
	}

	prompt := prompts.Format(
		prompts.MustGet("construction.json", "plan-action-verbs"),
		map[string]string{
			"JobDescription": jobDescription,
			"Entries":        formatVerbEntries(units),
		},
	)

	resp, err := c.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, []string{fmt.Sprintf("action verb planning failed, falling back to per-sentence verbs: %v", err)}
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &raw); err != nil {
		return nil, []string{fmt.Sprintf("action verb plan was not valid JSON, falling back to per-sentence verbs: %v", err)}
	}

	return validatePlan(raw, units)
}

func formatVerbEntries(units []VerbUnit) string {
	var sb strings.Builder
	for _, unit := range units {
		entries := unit.Entries
		hasAny := false
		for _, entry := range entries {
			if len(entry.Candidates) > 0 {
				hasAny = true
				break
			}
		}
		if !hasAny {
			continue
		}
		fmt.Fprintf(&sb, "Role: %s\n", unit.Name)
		for _, entry := range entries {
			if len(entry.Candidates) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "- id: %s | sentence: %s | verbs: %s\n",
				entry.ID, entry.OriginalSentence, strings.Join(entry.Candidates, "; "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// validatePlan enforces the repetition rules the model was asked to follow.
// Entries are checked in input order so a rule violation always drops the
// later entry, deterministically.
func validatePlan(raw map[string]string, units []VerbUnit) (types.VerbPlan, []string) {
	plan := make(types.VerbPlan)
	var warnings []string
	overall := make(map[string]int)

	for _, unit := range units {
		usedInUnit := make(map[string]bool)
		for _, entry := range unit.Entries {
			assigned, ok := raw[entry.ID]
			if !ok {
				continue
			}

			verb, ok := matchCandidate(assigned, entry.Candidates)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("planned verb %q for %s is not a candidate, dropping", assigned, entry.ID))
				continue
			}

			key := strings.ToLower(verb)
			if usedInUnit[key] {
				warnings = append(warnings, fmt.Sprintf("planned verb %q repeats within %s, dropping %s", verb, unit.Name, entry.ID))
				continue
			}
			if overall[key] >= MaxVerbUses {
				warnings = append(warnings, fmt.Sprintf("planned verb %q already used %d times, dropping %s", verb, MaxVerbUses, entry.ID))
				continue
			}

			usedInUnit[key] = true
			overall[key]++
			plan[entry.ID] = verb
		}
	}

	return plan, warnings
}

// matchCandidate maps an assigned verb back to the candidate list,
// tolerating case differences.
func matchCandidate(assigned string, candidates []string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(assigned))
	for _, c := range candidates {
		if strings.ToLower(c) == want {
			return c, true
		}
	}
	return "", false
}
