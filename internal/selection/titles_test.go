package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tailorcv/tailorcv/internal/llm/llmtest"
)

var titleVariants = []string{"Software Engineer", "Backend Engineer", "Platform Engineer"}

func TestSelectTitle_SingleVariantNoCall(t *testing.T) {
	mock := llmtest.AlwaysFail()
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", []string{"Software Engineer"})
	assert.Equal(t, "Software Engineer", title)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, mock.Calls())
}

func TestSelectTitle_NoVariants(t *testing.T) {
	s := NewTitleSelector(llmtest.AlwaysFail())
	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", nil)
	assert.Equal(t, "", title)
	assert.Empty(t, warnings)
}

func TestSelectTitle_ExactMatch(t *testing.T) {
	mock := llmtest.AlwaysReply("Backend Engineer")
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", titleVariants)
	assert.Equal(t, "Backend Engineer", title)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, mock.Calls())
}

func TestSelectTitle_SubstringMatch(t *testing.T) {
	mock := llmtest.AlwaysReply("I would choose \"Platform Engineer\" for this posting.")
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", titleVariants)
	assert.Equal(t, "Platform Engineer", title)
	assert.Empty(t, warnings)
}

func TestSelectTitle_NumericAnswer(t *testing.T) {
	mock := llmtest.AlwaysReply("2")
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", titleVariants)
	assert.Equal(t, "Backend Engineer", title)
	assert.Empty(t, warnings)
}

func TestSelectTitle_UnmatchableAnswerFallsBack(t *testing.T) {
	mock := llmtest.AlwaysReply("Chief Vibes Officer")
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", titleVariants)
	assert.Equal(t, "Software Engineer", title)
	assert.NotEmpty(t, warnings)
}

func TestSelectTitle_ErrorFallsBack(t *testing.T) {
	mock := llmtest.AlwaysFail()
	s := NewTitleSelector(mock)

	title, warnings := s.SelectTitle(context.Background(), "jd", "Acme", titleVariants)
	assert.Equal(t, "Software Engineer", title)
	assert.NotEmpty(t, warnings)
}
