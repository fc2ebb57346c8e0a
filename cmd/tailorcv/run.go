package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/config"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/pipeline"
	"github.com/tailorcv/tailorcv/internal/research"
	"github.com/tailorcv/tailorcv/internal/resume"
	"github.com/tailorcv/tailorcv/internal/store"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full resume customization pipeline end-to-end",
	Long: `Orchestrates the entire customization process: company research -> title selection -> group selection -> action-verb planning -> sentence construction -> review -> summary -> Markdown assembly.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runResume        string
	runJob           string
	runOutput        string
	runProvider      string
	runResearchMode  string
	runAPIKey        string
	runCacheDir      string
	runCacheTTLDays  int
	runDatabaseURL   string
	runMaxConcurrent int
	runMaxAttempts   int
	runUseBrowser    bool
	runSkipResearch  bool
	runVerbose       bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to modular resume YAML file")
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job description text file")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Path for the generated Markdown resume (default: stdout)")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "LLM provider: gemini or anthropic (defaults to LLM_PROVIDER env var)")
	runCommand.Flags().StringVar(&runResearchMode, "research", "", "Research provider: llm or search (defaults to RESEARCH_PROVIDER env var)")
	runCommand.Flags().StringVar(&runCacheDir, "cache-dir", "", "Company cache directory (defaults to the user cache dir)")
	runCommand.Flags().IntVar(&runCacheTTLDays, "cache-ttl-days", 0, "Days before cached company research is considered stale")
	runCommand.Flags().IntVar(&runMaxConcurrent, "max-concurrent", 0, "Maximum concurrent LLM calls during sentence construction")
	runCommand.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Construction attempts per sentence, feedback rounds included")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for research pages that need JavaScript (requires Chrome)")
	runCommand.Flags().BoolVar(&runSkipResearch, "skip-research", false, "Skip company research entirely")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	// API key can be passed as a flag, or read from the provider's env var
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "API key for the LLM provider (optional, defaults to GEMINI_API_KEY or ANTHROPIC_API_KEY)")

	// Database URL for a shared company cache
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL for the company cache (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("resume") {
		cfg.Resume = runResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = runJob
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("provider") {
		cfg.LLMProvider = runProvider
	}
	if cmd.Flags().Changed("research") {
		cfg.ResearchProvider = runResearchMode
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = runCacheDir
	}
	if cmd.Flags().Changed("cache-ttl-days") {
		cfg.CacheTTLDays = runCacheTTLDays
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("max-concurrent") {
		cfg.MaxConcurrent = runMaxConcurrent
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = runMaxAttempts
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("skip-research") {
		cfg.SkipResearch = runSkipResearch
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("api-key") {
		switch cfg.LLMProvider {
		case "anthropic":
			cfg.AnthropicAPIKey = runAPIKey
		default:
			cfg.GeminiAPIKey = runAPIKey
		}
	}

	// Step 3: Fill remaining gaps from the environment
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Validate required fields
	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Job == "" {
		return fmt.Errorf("--job is required (via flag or config)")
	}

	apiKey := cfg.GeminiAPIKey
	keyHint := "GEMINI_API_KEY"
	if cfg.LLMProvider == "anthropic" {
		apiKey = cfg.AnthropicAPIKey
		keyHint = "ANTHROPIC_API_KEY"
	}
	if apiKey == "" {
		// Missing credential is not fatal: every LLM-backed step has a
		// deterministic fallback, so the run degrades to original content.
		fmt.Fprintf(os.Stderr, "Warning: %s is not set; continuing with original resume content\n", keyHint)
	}

	// Step 5: Load inputs
	res, err := resume.Load(cfg.Resume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}
	jobDescription, err := resume.LoadJobDescription(cfg.Job)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	// Step 6: Build the LLM client
	client, err := llm.NewClient(ctx, llm.ConfigForProvider(llm.Provider(cfg.LLMProvider)), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// Step 7: Build the researcher (cache and search are best-effort)
	var researcher *research.Researcher
	if !cfg.SkipResearch {
		researchCfg := &research.Config{TTL: cfg.EffectiveCacheTTL()}

		companyStore, err := openStore(ctx, &cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: company cache unavailable: %v\n", err)
		} else {
			researchCfg.Store = companyStore
			defer companyStore.Close()
		}

		if cfg.ResearchProvider == "search" {
			search, err := research.NewSearchService(ctx, cfg.SearchAPIKey, cfg.SearchCX, true)
			if err != nil {
				return fmt.Errorf("failed to create search service: %w", err)
			}
			researchCfg.Search = search.WithFetchOptions(cfg.EffectiveRequestTimeout(), cfg.UseBrowser)
		}

		researcher = research.NewResearcher(client, researchCfg)
	}

	// Step 8: Run the pipeline
	result, err := pipeline.NewCustomizer(client, researcher).Run(ctx, pipeline.Options{
		Resume:         res,
		JobDescription: jobDescription,
		MaxConcurrent:  cfg.EffectiveMaxConcurrent(),
		MaxAttempts:    cfg.EffectiveMaxAttempts(),
		SkipResearch:   cfg.SkipResearch,
		Verbose:        cfg.Verbose,
		Out:            os.Stdout,
	})
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		fmt.Println(result.Markdown)
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(result.Markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote customized resume to %s (run %s)\n", cfg.Output, result.RunID)
	return nil
}

// openStore picks the company cache backend: PostgreSQL when a database URL
// is configured, a file cache otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.CompanyStore, error) {
	if cfg.DatabaseURL != "" {
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = store.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir)
}
