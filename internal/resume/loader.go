package resume

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tailorcv/tailorcv/internal/types"
)

var validate = validator.New()

// Load reads and validates a resume from a YAML file.
func Load(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var r types.Resume
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse resume YAML: %w", err)
	}

	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid resume: %s", formatValidationErrors(err))
	}

	Normalize(&r)
	return &r, nil
}

// LoadJobDescription reads a job description from a plain text file.
func LoadJobDescription(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("job description file %s is empty", path)
	}
	return text, nil
}

// Normalize trims stray whitespace and drops empty responsibility groups
// so downstream stages can assume well-formed input.
func Normalize(r *types.Resume) {
	r.Basics.Name = strings.TrimSpace(r.Basics.Name)
	for i := range r.Work {
		role := &r.Work[i]
		for j := range role.TitleVariables {
			role.TitleVariables[j] = strings.TrimSpace(role.TitleVariables[j])
		}
		normalizeGroups(role.Groups)
	}
	for i := range r.Projects {
		normalizeGroups(r.Projects[i].Groups)
	}
}

func normalizeGroups(groups map[string]*types.ResponsibilityGroup) {
	for name, group := range groups {
		if group == nil || strings.TrimSpace(group.OriginalSentence) == "" {
			delete(groups, name)
			continue
		}
		group.OriginalSentence = strings.TrimSpace(group.OriginalSentence)
		group.ModularSentence = strings.TrimSpace(group.ModularSentence)
	}
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	ok := false
	if ve, isVE := err.(validator.ValidationErrors); isVE {
		verrs = ve
		ok = true
	}
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("field %s failed %q validation", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
