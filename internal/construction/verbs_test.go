package construction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/llm/llmtest"
	"github.com/tailorcv/tailorcv/internal/types"
)

func planUnits() []VerbUnit {
	return []VerbUnit{
		{
			Name: "Acme Corp",
			Entries: []VerbEntry{
				{ID: "grp_a1", OriginalSentence: "Built APIs.", Candidates: []string{"Built", "Designed"}},
				{ID: "grp_a2", OriginalSentence: "Led migrations.", Candidates: []string{"Led", "Drove"}},
			},
		},
		{
			Name: "Globex",
			Entries: []VerbEntry{
				{ID: "grp_b1", OriginalSentence: "Built pipelines.", Candidates: []string{"Built", "Created"}},
			},
		},
	}
}

func TestPlanActionVerbs_AcceptsValidPlan(t *testing.T) {
	mock := llmtest.AlwaysReply(`{"grp_a1": "Built", "grp_a2": "Led", "grp_b1": "Created"}`)
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", planUnits())
	assert.Empty(t, warnings)
	assert.Equal(t, types.VerbPlan{"grp_a1": "Built", "grp_a2": "Led", "grp_b1": "Created"}, plan)
	assert.Equal(t, 1, mock.Calls())
}

func TestPlanActionVerbs_SingleBatchedCall(t *testing.T) {
	mock := llmtest.AlwaysReply(`{}`)
	c := NewConstructor(mock)

	c.PlanActionVerbs(context.Background(), "jd", planUnits())
	require.Equal(t, 1, mock.Calls())

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "grp_a1")
	assert.Contains(t, prompt, "grp_b1")
	assert.Contains(t, prompt, "Acme Corp")
}

func TestPlanActionVerbs_DropsNonCandidateVerb(t *testing.T) {
	mock := llmtest.AlwaysReply(`{"grp_a1": "Spearheaded", "grp_a2": "Led"}`)
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", planUnits())
	assert.NotContains(t, plan, "grp_a1")
	assert.Equal(t, "Led", plan["grp_a2"])
	assert.NotEmpty(t, warnings)
}

func TestPlanActionVerbs_DropsRepeatWithinUnit(t *testing.T) {
	units := []VerbUnit{{
		Name: "Acme Corp",
		Entries: []VerbEntry{
			{ID: "grp_a1", Candidates: []string{"Built"}},
			{ID: "grp_a2", Candidates: []string{"Built", "Led"}},
		},
	}}
	mock := llmtest.AlwaysReply(`{"grp_a1": "Built", "grp_a2": "Built"}`)
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", units)
	assert.Equal(t, "Built", plan["grp_a1"])
	assert.NotContains(t, plan, "grp_a2")
	assert.NotEmpty(t, warnings)
}

func TestPlanActionVerbs_DropsThirdOverallUse(t *testing.T) {
	units := []VerbUnit{
		{Name: "A", Entries: []VerbEntry{{ID: "g1", Candidates: []string{"Built"}}}},
		{Name: "B", Entries: []VerbEntry{{ID: "g2", Candidates: []string{"Built"}}}},
		{Name: "C", Entries: []VerbEntry{{ID: "g3", Candidates: []string{"Built"}}}},
	}
	mock := llmtest.AlwaysReply(`{"g1": "Built", "g2": "Built", "g3": "Built"}`)
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", units)
	assert.Equal(t, "Built", plan["g1"])
	assert.Equal(t, "Built", plan["g2"])
	assert.NotContains(t, plan, "g3")
	assert.NotEmpty(t, warnings)
}

func TestPlanActionVerbs_CaseInsensitiveMatch(t *testing.T) {
	units := []VerbUnit{{
		Name:    "A",
		Entries: []VerbEntry{{ID: "g1", Candidates: []string{"Built"}}},
	}}
	mock := llmtest.AlwaysReply(`{"g1": "built"}`)
	c := NewConstructor(mock)

	plan, _ := c.PlanActionVerbs(context.Background(), "jd", units)
	assert.Equal(t, "Built", plan["g1"])
}

func TestPlanActionVerbs_FailureMeansEmptyPlan(t *testing.T) {
	mock := llmtest.AlwaysFail()
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", planUnits())
	assert.Empty(t, plan)
	assert.NotEmpty(t, warnings)
}

func TestPlanActionVerbs_InvalidJSONMeansEmptyPlan(t *testing.T) {
	mock := llmtest.AlwaysReply("I think Led works best for everything")
	c := NewConstructor(mock)

	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", planUnits())
	assert.Empty(t, plan)
	assert.NotEmpty(t, warnings)
}

func TestPlanActionVerbs_NothingPlannable(t *testing.T) {
	mock := llmtest.AlwaysFail()
	c := NewConstructor(mock)

	units := []VerbUnit{{Name: "A", Entries: []VerbEntry{{ID: "g1"}}}}
	plan, warnings := c.PlanActionVerbs(context.Background(), "jd", units)
	assert.Empty(t, plan)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, mock.Calls())
}

func TestVerbCandidates(t *testing.T) {
	group := &types.ResponsibilityGroup{
		Variables: map[string][]string{"action_verbs": {"Led", "Drove"}},
	}
	assert.Equal(t, []string{"Led", "Drove"}, VerbCandidates(group))

	group = &types.ResponsibilityGroup{
		Variables: map[string][]string{"action_verb": {"Built"}},
	}
	assert.Equal(t, []string{"Built"}, VerbCandidates(group))

	assert.Nil(t, VerbCandidates(&types.ResponsibilityGroup{}))
}
