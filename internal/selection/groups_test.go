package selection

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/llm/llmtest"
	"github.com/tailorcv/tailorcv/internal/types"
)

func makeGroups(n int) ([]string, map[string]*types.ResponsibilityGroup) {
	names := make([]string, 0, n)
	groups := make(map[string]*types.ResponsibilityGroup, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("group_%02d", i+1)
		names = append(names, name)
		groups[name] = &types.ResponsibilityGroup{
			OriginalSentence: fmt.Sprintf("Accomplished thing number %d.", i+1),
		}
	}
	return names, groups
}

func TestMinGroups(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{5, 3},
		{10, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinGroups(tt.total), "total=%d", tt.total)
	}
}

func TestSelectGroups_UsesModelChoice(t *testing.T) {
	names, groups := makeGroups(5)
	mock := llmtest.AlwaysReply("1, 3, 4")
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	assert.Equal(t, []string{"group_01", "group_03", "group_04"}, kept)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, mock.Calls())
}

func TestSelectGroups_NoCallWhenAllMustStay(t *testing.T) {
	names, groups := makeGroups(2)
	mock := llmtest.AlwaysFail()
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	assert.Equal(t, names, kept)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, mock.Calls())
}

func TestSelectGroups_TopsUpToMinimum(t *testing.T) {
	names, groups := makeGroups(5)
	mock := llmtest.AlwaysReply("2")
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	// Minimum for 5 is 3: the chosen group plus the earliest unselected ones.
	assert.Equal(t, []string{"group_01", "group_02", "group_03"}, kept)
	assert.NotEmpty(t, warnings)
}

func TestSelectGroups_FailsOpenOnError(t *testing.T) {
	names, groups := makeGroups(5)
	mock := llmtest.AlwaysFail()
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	assert.Equal(t, names, kept)
	assert.NotEmpty(t, warnings)
}

func TestSelectGroups_FailsOpenOnGarbage(t *testing.T) {
	names, groups := makeGroups(4)
	mock := llmtest.AlwaysReply("none of these look relevant to me")
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	assert.Equal(t, names, kept)
	assert.NotEmpty(t, warnings)
}

func TestSelectGroups_IgnoresOutOfRangeNumbers(t *testing.T) {
	names, groups := makeGroups(5)
	mock := llmtest.AlwaysReply("0, 2, 3, 4, 99")
	s := NewGroupSelector(mock)

	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
	assert.Equal(t, []string{"group_02", "group_03", "group_04"}, kept)
	assert.Empty(t, warnings)
}

func TestSelectGroups_EmptyInput(t *testing.T) {
	s := NewGroupSelector(llmtest.AlwaysFail())
	kept, warnings := s.SelectGroups(context.Background(), "jd", "Engineer", nil, nil)
	assert.Nil(t, kept)
	assert.Empty(t, warnings)
}

// Whatever the model replies, the floor holds and output order is stable.
func TestSelectGroups_FloorHoldsForArbitraryReplies(t *testing.T) {
	replies := []string{
		"", "1", "1,1,1,1", "5 4 3 2 1", "999", "-3", "I would pick 2 and maybe 4",
		"all of them", "1, 2", "3\n4\n5",
	}
	names, groups := makeGroups(5)
	minimum := MinGroups(5)

	for _, reply := range replies {
		mock := llmtest.AlwaysReply(reply)
		s := NewGroupSelector(mock)

		kept, _ := s.SelectGroups(context.Background(), "jd", "Engineer", names, groups)
		require.GreaterOrEqual(t, len(kept), minimum, "reply=%q", reply)

		// Output order must follow the input order.
		last := -1
		for _, name := range kept {
			idx := indexOf(names, name)
			require.Greater(t, idx, last, "reply=%q", reply)
			last = idx
		}
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
