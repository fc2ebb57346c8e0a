package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/tailorcv/tailorcv/internal/fetch"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/prompts"
	"github.com/tailorcv/tailorcv/internal/types"
)

const (
	resultsPerQuery  = 3
	maxFetchedPages  = 4
	maxPageTextChars = 2000
)

// SearchService researches companies through Google Programmable Search,
// optionally deepened by fetching the top result pages.
type SearchService struct {
	svc        *customsearch.Service
	cx         string
	fetchPages bool
	fetchOpts  *fetch.Options
}

// NewSearchService creates a search-backed research provider. When
// fetchPages is true the top result pages are downloaded and their text fed
// to the summarization model alongside the search snippets.
func NewSearchService(ctx context.Context, apiKey, cx string, fetchPages bool) (*SearchService, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &SearchService{
		svc:        svc,
		cx:         cx,
		fetchPages: fetchPages,
		fetchOpts:  fetch.DefaultOptions(),
	}, nil
}

// WithFetchOptions overrides how result pages are downloaded. A zero
// timeout keeps the default; useBrowser enables the headless-browser
// fallback for JavaScript-rendered pages.
func (s *SearchService) WithFetchOptions(timeout time.Duration, useBrowser bool) *SearchService {
	if timeout > 0 {
		s.fetchOpts.Timeout = timeout
	}
	s.fetchOpts.UseBrowser = useBrowser
	return s
}

func companyQueries(name string) []string {
	return []string{
		fmt.Sprintf("%s company overview", name),
		fmt.Sprintf("%s products services", name),
		fmt.Sprintf("%s engineering tech stack", name),
		fmt.Sprintf("%s company values culture", name),
		fmt.Sprintf("%s recent news", name),
	}
}

// Profile gathers search results for the company and asks the model to
// distill them into a structured profile.
func (s *SearchService) Profile(ctx context.Context, client llm.Client, name string, cachedAt time.Time) (*types.CompanyInfo, error) {
	var sb strings.Builder
	var links []string
	seen := make(map[string]bool)

	for _, q := range companyQueries(name) {
		resp, err := s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(q).Num(resultsPerQuery).Do()
		if err != nil {
			// A single failed query is survivable; the rest still inform
			// the summary.
			continue
		}
		for _, item := range resp.Items {
			fmt.Fprintf(&sb, "- %s: %s (%s)\n", item.Title, item.Snippet, item.Link)
			if !seen[item.Link] {
				seen[item.Link] = true
				links = append(links, item.Link)
			}
		}
	}

	if sb.Len() == 0 {
		return nil, &APICallError{Message: fmt.Sprintf("no search results for %s", name)}
	}

	if s.fetchPages {
		s.appendPageText(ctx, &sb, links)
	}

	prompt := prompts.Format(
		prompts.MustGet("research.json", "summarize-search-results"),
		map[string]string{
			"CompanyName":   name,
			"SearchResults": sb.String(),
		},
	)

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: fmt.Sprintf("search summarization for %s failed", name), Cause: err}
	}

	return parseProfile(llm.CleanJSONBlock(resp), name, cachedAt)
}

func (s *SearchService) appendPageText(ctx context.Context, sb *strings.Builder, links []string) {
	if len(links) > maxFetchedPages {
		links = links[:maxFetchedPages]
	}

	results, _ := fetch.Pages(ctx, links, s.fetchOpts, maxFetchedPages)
	for _, result := range results {
		if result == nil || strings.TrimSpace(result.Text) == "" {
			continue
		}
		text := result.Text
		if len(text) > maxPageTextChars {
			text = text[:maxPageTextChars]
		}
		fmt.Fprintf(sb, "\nPage content from %s:\n%s\n", result.URL, text)
	}
}
