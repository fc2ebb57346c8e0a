package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/types"
)

func sampleResume() *types.CustomizedResume {
	return &types.CustomizedResume{
		Basics: types.Basics{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "555-0100",
			Location: types.Location{City: "Toronto", Province: "ON"},
			LinkedIn: "https://linkedin.com/in/janedoe",
		},
		Summary: "Backend engineer with five years of Go experience.",
		Roles: []types.RoleRecord{
			{
				Title:     "Junior Developer",
				Company:   "Globex",
				StartDate: "Jun 2017",
				EndDate:   "Dec 2019",
				Location:  "Ottawa, ON",
				Sentences: []types.SentenceRecord{
					{Text: "Maintained internal tooling for the support team."},
				},
			},
			{
				Title:     "Software Engineer",
				Company:   "Acme Corp",
				StartDate: "Jan 2020",
				EndDate:   "Present",
				Location:  "Toronto, ON",
				Sentences: []types.SentenceRecord{
					{Text: "Built REST APIs serving one million requests per day."},
					{Text: "Led the migration to PostgreSQL."},
				},
			},
		},
		Projects: []types.ProjectRecord{
			{
				Name:      "Side Project",
				StartDate: "Mar 2021",
				EndDate:   "Aug 2021",
				Sentences: []types.SentenceRecord{{Text: "Wrote a CLI tool in Go."}},
			},
		},
		Education: []types.Education{
			{Institution: "University of Toronto", Degree: "BSc", FieldOfStudy: "Computer Science", YearOfCompletion: "2019"},
		},
		Certificates: []types.Certificate{
			{Name: "AWS Solutions Architect", Organization: "Amazon", DateOfIssue: "Mar 2022"},
		},
	}
}

func TestMarkdown_SectionOrder(t *testing.T) {
	doc := Markdown(sampleResume())

	sections := []string{
		"# Jane Doe",
		"## Summary",
		"## Experience",
		"## Projects",
		"## Education",
		"## Certificates",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(doc, section)
		require.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestMarkdown_ContactLine(t *testing.T) {
	doc := Markdown(sampleResume())
	assert.Contains(t, doc, "jane@example.com | 555-0100 | Toronto, ON | [LinkedIn](https://linkedin.com/in/janedoe)")
}

func TestMarkdown_RolesSortedByStartDateDescending(t *testing.T) {
	doc := Markdown(sampleResume())

	recent := strings.Index(doc, "### Software Engineer | Acme Corp")
	past := strings.Index(doc, "### Junior Developer | Globex")
	require.NotEqual(t, -1, recent)
	require.NotEqual(t, -1, past)
	assert.Less(t, recent, past, "most recently started role must render first")
}

// An ongoing role does not jump ahead of a role that started later; the
// start date alone decides the order.
func TestMarkdown_OngoingRoleKeepsStartDateOrder(t *testing.T) {
	resume := &types.CustomizedResume{
		Basics: types.Basics{Name: "Jane"},
		Roles: []types.RoleRecord{
			{Title: "Older", Company: "A", StartDate: "Jan 2019", EndDate: "Present"},
			{Title: "Newer", Company: "B", StartDate: "Jan 2021", EndDate: "Jan 2022"},
		},
	}
	doc := Markdown(resume)
	assert.Less(t, strings.Index(doc, "### Newer | B"), strings.Index(doc, "### Older | A"))
}

func TestMarkdown_RoleMetaAndBullets(t *testing.T) {
	doc := Markdown(sampleResume())
	assert.Contains(t, doc, "*Jan 2020 - Present* | Toronto, ON")
	assert.Contains(t, doc, "- Built REST APIs serving one million requests per day.\n- Led the migration to PostgreSQL.")
}

func TestMarkdown_UnparseableDatesSortLast(t *testing.T) {
	resume := &types.CustomizedResume{
		Basics: types.Basics{Name: "Jane"},
		Roles: []types.RoleRecord{
			{Title: "Mystery", Company: "Unknown", StartDate: "??", EndDate: "a while ago"},
			{Title: "Engineer", Company: "Acme", StartDate: "Jan 2015", EndDate: "Feb 2016"},
		},
	}
	doc := Markdown(resume)

	known := strings.Index(doc, "### Engineer | Acme")
	unknown := strings.Index(doc, "### Mystery | Unknown")
	assert.Less(t, known, unknown)
}

func TestMarkdown_TieBreaksByEndDate(t *testing.T) {
	resume := &types.CustomizedResume{
		Basics: types.Basics{Name: "Jane"},
		Roles: []types.RoleRecord{
			{Title: "Finished", Company: "A", StartDate: "Jan 2020", EndDate: "Dec 2020"},
			{Title: "Ongoing", Company: "B", StartDate: "Jan 2020", EndDate: "Present"},
		},
	}
	doc := Markdown(resume)
	assert.Less(t, strings.Index(doc, "### Ongoing | B"), strings.Index(doc, "### Finished | A"))
}

func TestMarkdown_Education(t *testing.T) {
	doc := Markdown(sampleResume())
	assert.Contains(t, doc, "- **BSc in Computer Science**, University of Toronto (2019)")
}

func TestMarkdown_Certificates(t *testing.T) {
	doc := Markdown(sampleResume())
	assert.Contains(t, doc, "- **AWS Solutions Architect**, Amazon (Mar 2022)")
}

func TestMarkdown_OmitsEmptySections(t *testing.T) {
	resume := &types.CustomizedResume{Basics: types.Basics{Name: "Jane"}}
	doc := Markdown(resume)
	assert.NotContains(t, doc, "## Summary")
	assert.NotContains(t, doc, "## Experience")
	assert.NotContains(t, doc, "## Projects")
	assert.NotContains(t, doc, "## Education")
	assert.NotContains(t, doc, "## Certificates")
}

// Rendering is pure: repeated calls produce identical bytes and leave the
// input untouched.
func TestMarkdown_Deterministic(t *testing.T) {
	resume := sampleResume()
	first := Markdown(resume)
	second := Markdown(resume)
	assert.Equal(t, first, second)

	// The input ordering is preserved (sorting happens on a copy).
	assert.Equal(t, "Junior Developer", resume.Roles[0].Title)
}

func TestMarkdown_EndsWithSingleNewline(t *testing.T) {
	doc := Markdown(sampleResume())
	assert.True(t, strings.HasSuffix(doc, "\n"))
	assert.False(t, strings.HasSuffix(doc, "\n\n"))
}
