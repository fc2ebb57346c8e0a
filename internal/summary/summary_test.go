package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/llm/llmtest"
	"github.com/tailorcv/tailorcv/internal/types"
)

const reviewJSON = `{
	"overall_alignment": "Strong match for the backend role.",
	"key_skills": {"covered": ["Go", "PostgreSQL"], "missing": ["Kubernetes"]},
	"narrative_assessment": "Clear progression toward platform work.",
	"redundancies": ["Two bullets about API migrations"],
	"suggested_improvements": ["Quantify the caching win"],
	"clutter": [],
	"title_recommendations": {"Acme Corp": "Backend Engineer"}
}`

func TestReviewContent_ParsesReview(t *testing.T) {
	mock := llmtest.AlwaysReply(reviewJSON)
	g := NewGenerator(mock)

	review, err := g.ReviewContent(context.Background(), "jd", "resume content")
	require.NoError(t, err)
	assert.Equal(t, "Strong match for the backend role.", review.OverallAlignment)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, review.KeySkills.Covered)
	assert.Equal(t, []string{"Kubernetes"}, review.KeySkills.Missing)
	assert.Equal(t, "Backend Engineer", review.TitleRecommendations["Acme Corp"])
	assert.Equal(t, 1, mock.Calls())
}

func TestReviewContent_StripsCodeFences(t *testing.T) {
	mock := llmtest.AlwaysReply("```json\n" + reviewJSON + "\n```")
	g := NewGenerator(mock)

	review, err := g.ReviewContent(context.Background(), "jd", "resume content")
	require.NoError(t, err)
	assert.NotEmpty(t, review.OverallAlignment)
}

func TestReviewContent_ErrorPropagates(t *testing.T) {
	g := NewGenerator(llmtest.AlwaysFail())
	_, err := g.ReviewContent(context.Background(), "jd", "resume content")
	assert.Error(t, err)
}

func TestReviewContent_InvalidJSON(t *testing.T) {
	g := NewGenerator(llmtest.AlwaysReply("the resume looks fine overall"))
	_, err := g.ReviewContent(context.Background(), "jd", "resume content")
	assert.Error(t, err)
}

func TestGenerateSummary_UsesModelOutput(t *testing.T) {
	mock := llmtest.AlwaysReply(`"Backend engineer with five years of Go experience."`)
	g := NewGenerator(mock)

	text, warnings := g.GenerateSummary(context.Background(), "jd", "resume content", nil)
	assert.Equal(t, "Backend engineer with five years of Go experience.", text)
	assert.Empty(t, warnings)
}

func TestGenerateSummary_IncludesReviewNotes(t *testing.T) {
	mock := llmtest.AlwaysReply("A summary.")
	g := NewGenerator(mock)

	review := &types.ContentReview{
		OverallAlignment: "Strong match.",
		KeySkills:        types.KeySkills{Covered: []string{"Go"}, Missing: []string{"Kubernetes"}},
	}
	g.GenerateSummary(context.Background(), "jd", "resume content", review)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "Strong match.")
	assert.Contains(t, prompt, "Kubernetes")
}

func TestGenerateSummary_FallbackOnError(t *testing.T) {
	g := NewGenerator(llmtest.AlwaysFail())

	text, warnings := g.GenerateSummary(context.Background(), "jd", "resume content", nil)
	assert.Equal(t, FallbackSummary, text)
	assert.NotEmpty(t, warnings)
}

func TestGenerateSummary_FallbackOnEmptyReply(t *testing.T) {
	g := NewGenerator(llmtest.AlwaysReply("  "))

	text, warnings := g.GenerateSummary(context.Background(), "jd", "resume content", nil)
	assert.Equal(t, FallbackSummary, text)
	assert.NotEmpty(t, warnings)
}

func TestReviewNotes_NilReview(t *testing.T) {
	assert.Equal(t, "No reviewer notes available.", reviewNotes(nil))
	assert.Equal(t, "No reviewer notes available.", reviewNotes(&types.ContentReview{}))
}
