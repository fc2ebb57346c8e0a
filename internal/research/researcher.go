// Package research resolves the hiring company behind a job description and
// enriches the description with a researched company profile.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/store"
	"github.com/tailorcv/tailorcv/internal/types"
)

// maxNameExtractionChars bounds how much of the job description is sent for
// company-name extraction. Postings front-load the company identity, so the
// head of the text is enough.
const maxNameExtractionChars = 2000

// Researcher enriches job descriptions with researched company context.
type Researcher struct {
	client llm.Client
	search *SearchService
	store  store.CompanyStore
	ttl    time.Duration
	now    func() time.Time
}

// Config holds the optional collaborators of a Researcher.
type Config struct {
	// Search, when set, researches companies through web search instead
	// of the model's own knowledge.
	Search *SearchService

	// Store caches researched profiles between runs. Nil disables caching.
	Store store.CompanyStore

	// TTL is how long cached profiles stay fresh. Zero means
	// types.DefaultCompanyInfoTTL.
	TTL time.Duration
}

// NewResearcher creates a Researcher backed by the given LLM client.
func NewResearcher(client llm.Client, cfg *Config) *Researcher {
	if cfg == nil {
		cfg = &Config{}
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = types.DefaultCompanyInfoTTL
	}
	return &Researcher{
		client: client,
		search: cfg.Search,
		store:  cfg.Store,
		ttl:    ttl,
		now:    time.Now,
	}
}

// ExtractCompanyName determines which company a job description is for.
// It asks the model first and falls back to pattern matching; an empty
// result means the company could not be determined.
func (r *Researcher) ExtractCompanyName(ctx context.Context, jobDescription string) (string, error) {
	head := jobDescription
	if len(head) > maxNameExtractionChars {
		head = head[:maxNameExtractionChars]
	}

	prompt := prompts.Format(
		prompts.MustGet("research.json", "extract-company-name"),
		map[string]string{"JobDescription": head},
	)

	resp, err := r.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		if name := heuristicCompanyName(head); name != "" {
			return name, nil
		}
		return "", &APICallError{Message: "company name extraction failed", Cause: err}
	}

	name := llm.StripWrappingQuotes(strings.TrimSpace(resp))
	if name == "" {
		name = heuristicCompanyName(head)
	}
	return name, nil
}

var companyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^About ([A-Z][\w&.'-]*(?: [A-Z][\w&.'-]*){0,4})`),
	regexp.MustCompile(`(?m)\bJoin ([A-Z][\w&.'-]*(?: [A-Z][\w&.'-]*){0,4})`),
	regexp.MustCompile(`(?m)\bat ([A-Z][\w&.'-]*(?: [A-Z][\w&.'-]*){0,4})`),
}

// heuristicCompanyName scans for common posting phrasings like "About Acme"
// or "engineer at Acme Corp".
func heuristicCompanyName(text string) string {
	for _, pattern := range companyNamePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			name := strings.TrimRight(strings.TrimSpace(m[1]), ".,;:")
			if name != "" {
				return name
			}
		}
	}
	return ""
}

// ResearchCompany produces a fresh profile for the named company, through
// web search when configured and otherwise from the model directly.
func (r *Researcher) ResearchCompany(ctx context.Context, name string) (*types.CompanyInfo, error) {
	if r.search != nil {
		return r.search.Profile(ctx, r.client, name, r.now())
	}

	prompt := prompts.Format(
		prompts.MustGet("research.json", "research-company-structured"),
		map[string]string{"CompanyName": name},
	)

	resp, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: fmt.Sprintf("research for %s failed", name), Cause: err}
	}

	return parseProfile(llm.CleanJSONBlock(resp), name, r.now())
}

// profilePayload matches the JSON shape the research prompts request.
type profilePayload struct {
	Description string   `json:"description"`
	Industry    string   `json:"industry"`
	Products    []string `json:"products"`
	Values      []string `json:"values"`
	TechStack   []string `json:"tech_stack"`
	Trends      []string `json:"trends"`
}

func parseProfile(jsonContent, name string, cachedAt time.Time) (*types.CompanyInfo, error) {
	if err := validateProfileJSON(jsonContent); err != nil {
		return nil, err
	}

	var payload profilePayload
	if err := json.Unmarshal([]byte(jsonContent), &payload); err != nil {
		return nil, &ParseError{Message: "failed to unmarshal company profile", Cause: err}
	}

	return &types.CompanyInfo{
		Name:        name,
		Description: payload.Description,
		Industry:    payload.Industry,
		Products:    payload.Products,
		Values:      payload.Values,
		TechStack:   payload.TechStack,
		Trends:      payload.Trends,
		CachedAt:    cachedAt,
	}, nil
}

// Enrich runs the whole research step: identify the company, load or
// research its profile, and weave the profile into the job description.
//
// Every failure degrades to the original description. The returned warnings
// describe what was skipped; the first return value is always a usable job
// description.
func (r *Researcher) Enrich(ctx context.Context, jobDescription string) (string, *types.CompanyInfo, []string) {
	var warnings []string

	name, err := r.ExtractCompanyName(ctx, jobDescription)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("company name extraction failed: %v", err))
		return jobDescription, nil, warnings
	}
	if name == "" {
		warnings = append(warnings, "could not determine company name; skipping research")
		return jobDescription, nil, warnings
	}

	info := r.cachedProfile(ctx, name, &warnings)
	if info == nil {
		info, err = r.ResearchCompany(ctx, name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("research for %s failed: %v", name, err))
			return jobDescription, nil, warnings
		}
		if r.store != nil {
			if err := r.store.Put(ctx, info); err != nil {
				warnings = append(warnings, fmt.Sprintf("failed to cache profile for %s: %v", name, err))
			}
		}
	}

	if !info.HasContent() {
		warnings = append(warnings, fmt.Sprintf("research for %s returned no usable content", name))
		return jobDescription, info, warnings
	}

	enriched, err := r.weave(ctx, jobDescription, info)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to enrich description: %v", err))
		return jobDescription, info, warnings
	}
	return enriched, info, warnings
}

func (r *Researcher) cachedProfile(ctx context.Context, name string, warnings *[]string) *types.CompanyInfo {
	if r.store == nil {
		return nil
	}
	info, err := r.store.Get(ctx, name)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("cache lookup for %s failed: %v", name, err))
		return nil
	}
	if info == nil || info.Stale(r.ttl, r.now()) {
		return nil
	}
	return info
}

func (r *Researcher) weave(ctx context.Context, jobDescription string, info *types.CompanyInfo) (string, error) {
	prompt := prompts.Format(
		prompts.MustGet("research.json", "enrich-description"),
		map[string]string{
			"JobDescription": jobDescription,
			"CompanyName":    info.Name,
			"Industry":       info.Industry,
			"Description":    info.Description,
			"Values":         strings.Join(info.Values, ", "),
			"Products":       strings.Join(info.Products, ", "),
			"TechStack":      strings.Join(info.TechStack, ", "),
			"Trends":         strings.Join(info.Trends, ", "),
		},
	)

	resp, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &APICallError{Message: "enrichment call failed", Cause: err}
	}
	enriched := strings.TrimSpace(resp)
	if enriched == "" {
		return "", &ParseError{Message: "enrichment returned empty content"}
	}
	return enriched, nil
}
