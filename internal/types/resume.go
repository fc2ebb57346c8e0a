// Package types provides type definitions for structured data used throughout the resume customization pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Resume is the modular resume document loaded from YAML.
// Work, education and certificate sections are treated as read-only inputs
// for the duration of a run.
type Resume struct {
	Basics       Basics        `yaml:"basics" json:"basics" validate:"required"`
	Work         []Role        `yaml:"work" json:"work" validate:"required,min=1,dive"`
	Projects     []Project     `yaml:"projects,omitempty" json:"projects,omitempty" validate:"dive"`
	Education    []Education   `yaml:"education,omitempty" json:"education,omitempty"`
	Certificates []Certificate `yaml:"certificates,omitempty" json:"certificates,omitempty"`
}

// Basics holds the candidate's header/contact information.
type Basics struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Email    string   `yaml:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone    string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	Location Location `yaml:"location,omitempty" json:"location,omitempty"`
	LinkedIn string   `yaml:"linkedin,omitempty" json:"linkedin,omitempty" validate:"omitempty,url"`
}

// Location is the candidate's city/province pair.
type Location struct {
	City     string `yaml:"city,omitempty" json:"city,omitempty"`
	Province string `yaml:"province,omitempty" json:"province,omitempty"`
}

// Role is a single work-experience entry with title variants and
// named responsibility groups.
type Role struct {
	TitleVariables []string                        `yaml:"title_variables" json:"title_variables" validate:"required,min=1"`
	Company        StringList                      `yaml:"company" json:"company" validate:"required,min=1"`
	StartDate      string                          `yaml:"start_date" json:"start_date"`
	EndDate        string                          `yaml:"end_date" json:"end_date"`
	Location       string                          `yaml:"location,omitempty" json:"location,omitempty"`
	Groups         map[string]*ResponsibilityGroup `yaml:"responsibilities_and_accomplishments" json:"responsibilities_and_accomplishments"`
}

// CompanyName joins multi-company roles (e.g. after an acquisition) into a
// single display string.
func (r *Role) CompanyName() string {
	return strings.Join(r.Company, ", ")
}

// GroupNames returns the role's group keys in stable sorted order. Map
// iteration order is not reproducible, so every place that enumerates
// groups goes through this.
func (r *Role) GroupNames() []string {
	names := make([]string, 0, len(r.Groups))
	for name := range r.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Project is a personal or side project entry. It carries the same group
// structure as a role but has a single name instead of title variants.
type Project struct {
	Name      string                          `yaml:"name" json:"name" validate:"required"`
	StartDate string                          `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string                          `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Groups    map[string]*ResponsibilityGroup `yaml:"responsibilities_and_accomplishments" json:"responsibilities_and_accomplishments"`
}

// GroupNames returns the project's group keys in stable sorted order.
func (p *Project) GroupNames() []string {
	names := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResponsibilityGroup is one bullet-point unit: an original sentence plus an
// optional template with replaceable phrase variables.
type ResponsibilityGroup struct {
	ID               string              `yaml:"id,omitempty" json:"id,omitempty"`
	OriginalSentence string              `yaml:"original_sentence" json:"original_sentence"`
	ModularSentence  string              `yaml:"modular_sentence,omitempty" json:"modular_sentence,omitempty"`
	Variables        map[string][]string `yaml:"variables,omitempty" json:"variables,omitempty"`
}

// StableID returns the group's explicit id when present, otherwise a
// deterministic id derived from the original sentence content. Re-running
// with the same input always produces the same id.
func (g *ResponsibilityGroup) StableID() string {
	if g.ID != "" {
		return g.ID
	}
	sum := sha256.Sum256([]byte(g.OriginalSentence))
	return "grp_" + hex.EncodeToString(sum[:8])
}

// Education is a passthrough section entry.
type Education struct {
	Institution      string `yaml:"institution" json:"institution"`
	Degree           string `yaml:"degree" json:"degree"`
	FieldOfStudy     string `yaml:"field_of_study,omitempty" json:"field_of_study,omitempty"`
	YearOfCompletion string `yaml:"year_of_completion,omitempty" json:"year_of_completion,omitempty"`
}

// Certificate is a passthrough section entry.
type Certificate struct {
	Name         string `yaml:"name" json:"name"`
	Organization string `yaml:"organization,omitempty" json:"organization,omitempty"`
	DateOfIssue  string `yaml:"date_of_issue,omitempty" json:"date_of_issue,omitempty"`
}

// StringList accepts either a YAML scalar or a YAML sequence. Resume files
// in the wild use both `company: Acme` and `company: [Acme, AcmeCo]`.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = StringList{single}
		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = StringList(many)
	return nil
}
