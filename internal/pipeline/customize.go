// Package pipeline provides the high-level orchestration for the resume
// customization process.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tailorcv/tailorcv/internal/construction"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/observability"
	"github.com/tailorcv/tailorcv/internal/render"
	"github.com/tailorcv/tailorcv/internal/research"
	"github.com/tailorcv/tailorcv/internal/review"
	"github.com/tailorcv/tailorcv/internal/selection"
	"github.com/tailorcv/tailorcv/internal/summary"
	"github.com/tailorcv/tailorcv/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for one customization run.
type Options struct {
	Resume         *types.Resume
	JobDescription string

	// MaxConcurrent bounds how many sentences are constructed and
	// reviewed at once. Zero means 8.
	MaxConcurrent int

	// MaxAttempts is the construction budget per sentence, feedback
	// rounds included. Zero means 3.
	MaxAttempts int

	// SkipResearch disables company research even when a researcher is
	// configured.
	SkipResearch bool

	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
}

// Result is everything a run produces.
type Result struct {
	RunID    string
	Resume   *types.CustomizedResume
	Markdown string
	Review   *types.ContentReview
	Company  *types.CompanyInfo
	Warnings []string
}

// Customizer wires the stage components together.
type Customizer struct {
	client      llm.Client
	researcher  *research.Researcher
	groups      *selection.GroupSelector
	titles      *selection.TitleSelector
	constructor *construction.Constructor
	reviewer    *review.Reviewer
	generator   *summary.Generator
}

// NewCustomizer creates a Customizer. researcher may be nil, in which case
// the research stage is skipped.
func NewCustomizer(client llm.Client, researcher *research.Researcher) *Customizer {
	return &Customizer{
		client:      client,
		researcher:  researcher,
		groups:      selection.NewGroupSelector(client),
		titles:      selection.NewTitleSelector(client),
		constructor: construction.NewConstructor(client),
		reviewer:    review.NewReviewer(client),
		generator:   summary.NewGenerator(client),
	}
}

// unit is one role or project flowing through selection and construction.
type unit struct {
	name      string // display name for logs and verb planning
	roleIdx   int    // index into Resume.Work, -1 for projects
	projIdx   int    // index into Resume.Projects, -1 for roles
	groups    map[string]*types.ResponsibilityGroup
	keptNames []string
	sentences []types.SentenceRecord
}

// Run executes the full customization pipeline.
func (c *Customizer) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Resume == nil {
		return nil, fmt.Errorf("pipeline requires a resume")
	}
	if opts.JobDescription == "" {
		return nil, fmt.Errorf("pipeline requires a job description")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	printer := observability.NewPrinter(out)
	runID := uuid.New().String()
	result := &Result{RunID: runID}

	var warnMu sync.Mutex
	warn := func(ws ...string) {
		warnMu.Lock()
		defer warnMu.Unlock()
		for _, w := range ws {
			if w == "" {
				continue
			}
			fmt.Fprintf(out, "Warning: %s\n", w)
			result.Warnings = append(result.Warnings, w)
		}
	}
	progress := func(step, message string) {
		fmt.Fprintf(out, "%s %s\n", step, message)
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: runID})
		}
	}

	// Step 1: company research
	jobDescription := opts.JobDescription
	if c.researcher != nil && !opts.SkipResearch {
		progress("Step 1/8:", "Researching the hiring company...")
		enriched, info, warnings := c.researcher.Enrich(ctx, jobDescription)
		warn(warnings...)
		jobDescription = enriched
		result.Company = info
		if opts.Verbose {
			printer.PrintCompanyInfo(info)
		}
	} else {
		progress("Step 1/8:", "Skipping company research")
	}

	// Step 2: title selection, one role at a time in parallel
	progress("Step 2/8:", "Selecting job titles...")
	resume := opts.Resume
	titles := make([]string, len(resume.Work))
	{
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrent)
		for i := range resume.Work {
			g.Go(func() error {
				role := &resume.Work[i]
				title, warnings := c.titles.SelectTitle(gctx, jobDescription, role.CompanyName(), role.TitleVariables)
				titles[i] = title
				warn(warnings...)
				return nil
			})
		}
		_ = g.Wait()
	}

	// Step 3: group selection per role and project
	progress("Step 3/8:", "Selecting relevant experience groups...")
	units := buildUnits(resume, titles)
	{
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrent)
		for i := range units {
			g.Go(func() error {
				u := &units[i]
				names := groupNames(u)
				kept, warnings := c.groups.SelectGroups(gctx, jobDescription, u.name, names, u.groups)
				u.keptNames = kept
				warn(warnings...)
				if opts.Verbose {
					printer.PrintSelection(u.name, kept, len(names))
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	// Step 4: one batched action-verb plan across every kept group
	progress("Step 4/8:", "Planning action verbs...")
	plan, planWarnings := c.constructor.PlanActionVerbs(ctx, jobDescription, verbUnits(units))
	warn(planWarnings...)

	// Step 5: construct and review sentences, bounded fan-out
	progress("Step 5/8:", "Constructing tailored sentences...")
	c.constructSentences(ctx, jobDescription, units, plan, maxConcurrent, maxAttempts, warn)
	if opts.Verbose {
		for i := range units {
			printer.PrintSentences(units[i].name, units[i].sentences)
		}
	}

	customized := assemble(resume, titles, units)

	// Step 6: whole-document review
	progress("Step 6/8:", "Reviewing resume content...")
	contentForReview := render.Markdown(customized)
	contentReview, err := c.generator.ReviewContent(ctx, jobDescription, contentForReview)
	if err != nil {
		warn(fmt.Sprintf("content review skipped: %v", err))
	} else {
		result.Review = contentReview
		applyTitleRecommendations(customized, resume, contentReview)
		if opts.Verbose {
			printer.PrintContentReview(contentReview)
		}
	}

	// Step 7: summary
	progress("Step 7/8:", "Generating professional summary...")
	text, warnings := c.generator.GenerateSummary(ctx, jobDescription, contentForReview, contentReview)
	warn(warnings...)
	customized.Summary = text

	// Step 8: assemble the document
	progress("Step 8/8:", "Assembling the final resume...")
	result.Resume = customized
	result.Markdown = render.Markdown(customized)

	if opts.Verbose {
		printer.PrintWarnings(result.Warnings)
	}

	return result, nil
}

func buildUnits(resume *types.Resume, titles []string) []unit {
	units := make([]unit, 0, len(resume.Work)+len(resume.Projects))
	for i := range resume.Work {
		role := &resume.Work[i]
		units = append(units, unit{
			name:    fmt.Sprintf("%s @ %s", titles[i], role.CompanyName()),
			roleIdx: i,
			projIdx: -1,
			groups:  role.Groups,
		})
	}
	for i := range resume.Projects {
		project := &resume.Projects[i]
		units = append(units, unit{
			name:    project.Name,
			roleIdx: -1,
			projIdx: i,
			groups:  project.Groups,
		})
	}
	return units
}

func groupNames(u *unit) []string {
	names := make([]string, 0, len(u.groups))
	for name := range u.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func verbUnits(units []unit) []construction.VerbUnit {
	vus := make([]construction.VerbUnit, 0, len(units))
	for i := range units {
		u := &units[i]
		vu := construction.VerbUnit{Name: u.name}
		for _, name := range u.keptNames {
			group := u.groups[name]
			vu.Entries = append(vu.Entries, construction.VerbEntry{
				ID:               group.StableID(),
				OriginalSentence: group.OriginalSentence,
				Candidates:       construction.VerbCandidates(group),
			})
		}
		vus = append(vus, vu)
	}
	return vus
}

// constructSentences builds every kept sentence concurrently. Each sentence
// occupies one semaphore slot for its whole construct-review-retry loop so
// in-flight model calls never exceed the limit.
func (c *Customizer) constructSentences(ctx context.Context, jobDescription string, units []unit, plan types.VerbPlan, maxConcurrent, maxAttempts int, warn func(...string)) {
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	var wg sync.WaitGroup

	for i := range units {
		u := &units[i]
		u.sentences = make([]types.SentenceRecord, len(u.keptNames))
		for j, name := range u.keptNames {
			if err := sem.Acquire(ctx, 1); err != nil {
				u.sentences[j] = fallbackRecord(name, u.groups[name])
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				group := u.groups[name]
				record, warnings := c.buildSentence(ctx, jobDescription, name, group, plan[group.StableID()], maxAttempts)
				u.sentences[j] = record
				warn(warnings...)
			}()
		}
	}

	wg.Wait()
}

// buildSentence runs the construct-review loop for one group. A rejected
// sentence is retried with the reviewer's feedback; after the attempt
// budget the last version is accepted with a warning.
func (c *Customizer) buildSentence(ctx context.Context, jobDescription, groupName string, group *types.ResponsibilityGroup, actionVerb string, maxAttempts int) (types.SentenceRecord, []string) {
	var warnings []string
	record := types.SentenceRecord{
		GroupName: groupName,
		GroupID:   group.StableID(),
	}

	feedback := ""
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		record.Attempts = attempt

		built := c.constructor.Construct(ctx, jobDescription, group, actionVerb, feedback)
		warnings = append(warnings, built.Warnings...)
		record.Text = built.Sentence

		rev := c.reviewer.Review(ctx, jobDescription, group.OriginalSentence, built.Sentence)
		record.Approved = rev.Approved
		record.Feedback = rev.Feedback
		if rev.Approved {
			return record, warnings
		}

		feedback = rev.Feedback
		if built.Deterministic {
			// Retrying cannot produce a different sentence.
			break
		}
	}

	warnings = append(warnings, fmt.Sprintf("sentence for %q was not approved after %d attempt(s), keeping last version: %s", groupName, record.Attempts, record.Feedback))
	return record, warnings
}

func fallbackRecord(name string, group *types.ResponsibilityGroup) types.SentenceRecord {
	return types.SentenceRecord{
		GroupName: name,
		GroupID:   group.StableID(),
		Text:      group.OriginalSentence,
		Attempts:  0,
	}
}

// assemble maps the processed units back onto the resume structure.
func assemble(resume *types.Resume, titles []string, units []unit) *types.CustomizedResume {
	customized := &types.CustomizedResume{
		Basics:       resume.Basics,
		Education:    resume.Education,
		Certificates: resume.Certificates,
	}

	for i := range units {
		u := &units[i]
		switch {
		case u.roleIdx >= 0:
			role := &resume.Work[u.roleIdx]
			customized.Roles = append(customized.Roles, types.RoleRecord{
				Title:     titles[u.roleIdx],
				Company:   role.CompanyName(),
				StartDate: role.StartDate,
				EndDate:   role.EndDate,
				Location:  role.Location,
				Sentences: u.sentences,
			})
		case u.projIdx >= 0:
			project := &resume.Projects[u.projIdx]
			customized.Projects = append(customized.Projects, types.ProjectRecord{
				Name:      project.Name,
				StartDate: project.StartDate,
				EndDate:   project.EndDate,
				Sentences: u.sentences,
			})
		}
	}

	return customized
}

// applyTitleRecommendations overrides role titles the content review flagged,
// but only with titles the candidate actually listed as variants.
func applyTitleRecommendations(customized *types.CustomizedResume, resume *types.Resume, contentReview *types.ContentReview) {
	if len(contentReview.TitleRecommendations) == 0 {
		return
	}

	for i := range customized.Roles {
		record := &customized.Roles[i]
		recommended, ok := contentReview.TitleRecommendations[record.Company]
		if !ok || recommended == record.Title {
			continue
		}
		for _, role := range resume.Work {
			if role.CompanyName() != record.Company {
				continue
			}
			for _, variant := range role.TitleVariables {
				if variant == recommended {
					record.Title = recommended
				}
			}
		}
	}
}
