package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/types"
)

const sampleResume = `basics:
  name: Jane Doe
  email: jane@example.com
  phone: "555-0100"
  location:
    city: Toronto
    province: ON
  linkedin: https://linkedin.com/in/janedoe
work:
  - title_variables:
      - Software Engineer
      - Backend Engineer
    company: Acme Corp
    start_date: Jan 2020
    end_date: Present
    location: Toronto, ON
    responsibilities_and_accomplishments:
      api_work:
        original_sentence: Built REST APIs serving 1M requests per day.
        modular_sentence: Built {api_type} APIs serving {scale}.
        variables:
          api_type: [REST, gRPC]
          scale: [1M requests per day, high traffic]
      empty_group:
        original_sentence: "   "
projects:
  - name: Side Project
    responsibilities_and_accomplishments:
      core:
        original_sentence: Wrote a CLI tool in Go.
education:
  - institution: University of Toronto
    degree: BSc
    field_of_study: Computer Science
    year_of_completion: "2019"
certificates:
  - name: AWS Solutions Architect
    organization: Amazon
    date_of_issue: Mar 2022
`

func writeTempResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidResume(t *testing.T) {
	r, err := Load(writeTempResume(t, sampleResume))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", r.Basics.Name)
	require.Len(t, r.Work, 1)
	assert.Equal(t, "Acme Corp", r.Work[0].CompanyName())
	assert.Equal(t, []string{"Software Engineer", "Backend Engineer"}, r.Work[0].TitleVariables)

	// The whitespace-only group is dropped during normalization.
	assert.Len(t, r.Work[0].Groups, 1)
	assert.Contains(t, r.Work[0].Groups, "api_work")

	require.Len(t, r.Projects, 1)
	assert.Equal(t, "Side Project", r.Projects[0].Name)
	require.Len(t, r.Education, 1)
	require.Len(t, r.Certificates, 1)
}

func TestLoad_CompanyList(t *testing.T) {
	content := `basics:
  name: Jane Doe
work:
  - title_variables: [Engineer]
    company: [Acme Corp, AcmeCo]
    start_date: Jan 2020
    end_date: Dec 2021
    responsibilities_and_accomplishments:
      g:
        original_sentence: Did things.
`
	r, err := Load(writeTempResume(t, content))
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp, AcmeCo", r.Work[0].CompanyName())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTempResume(t, "basics: [unclosed"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse resume YAML")
}

func TestLoad_MissingName(t *testing.T) {
	content := `basics:
  email: jane@example.com
work:
  - title_variables: [Engineer]
    company: Acme
`
	_, err := Load(writeTempResume(t, content))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume")
}

func TestLoad_NoWorkEntries(t *testing.T) {
	content := `basics:
  name: Jane Doe
work: []
`
	_, err := Load(writeTempResume(t, content))
	assert.Error(t, err)
}

func TestLoadJobDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Senior Go Engineer at Acme.\n"), 0644))

	text, err := LoadJobDescription(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer at Acme.", text)
}

func TestLoadJobDescription_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0644))

	_, err := LoadJobDescription(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestNormalize_TrimsFields(t *testing.T) {
	r := &types.Resume{
		Basics: types.Basics{Name: "  Jane  "},
		Work: []types.Role{{
			TitleVariables: []string{" Engineer "},
			Groups: map[string]*types.ResponsibilityGroup{
				"g": {OriginalSentence: "  Did things.  ", ModularSentence: " Did {x}. "},
			},
		}},
	}
	Normalize(r)
	assert.Equal(t, "Jane", r.Basics.Name)
	assert.Equal(t, "Engineer", r.Work[0].TitleVariables[0])
	assert.Equal(t, "Did things.", r.Work[0].Groups["g"].OriginalSentence)
	assert.Equal(t, "Did {x}.", r.Work[0].Groups["g"].ModularSentence)
}
