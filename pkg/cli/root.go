// Package cli implements the duckgs command line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"duckgs/config"
	"duckgs/internal/cache"
	"duckgs/internal/domain"
	"duckgs/internal/engine"
	"duckgs/internal/postprocess"
	"duckgs/internal/render"
	"duckgs/internal/storage"
	"duckgs/internal/template"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usageErr *domain.UsageError
		if errors.As(err, &usageErr) {
			return 2
		}
		return 1
	}
	return 0
}

type options struct {
	query       string
	queryFile   string
	bucket      string
	kwargs      string
	evalSteps   []string
	script      string
	scriptFile  string
	silent      bool
	strict      bool
	examples    bool
	output      string
	cacheDir    string
	checkBucket bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "duckgs",
		Short:         "DuckDB SQL CLI for Google Cloud Storage",
		Long:          "duckgs queries Parquet files in Google Cloud Storage using SQL, with query templating, a content-addressed result cache and Starlark post-processing.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.query, "query", "q", "", "SQL query to execute")
	flags.StringVarP(&opts.queryFile, "query-file", "f", "", "read the query from a file")
	flags.StringVarP(&opts.bucket, "bucket", "b", "", "GCS bucket reference, usable as the {bucket} placeholder (env DUCKGS_BUCKET)")
	flags.StringVarP(&opts.kwargs, "kwargs", "k", "", `extra substitutions as a JSON object, e.g. --kwargs '{"year": 2021}' (env DUCKGS_KWARGS)`)
	flags.StringArrayVarP(&opts.evalSteps, "eval", "e", nil, `transform the result (bound as df), e.g. --eval "df[['a']]"; repeatable, applied in order`)
	flags.StringVarP(&opts.script, "script", "S", "", "Starlark script run after --eval; reassign df to persist changes")
	flags.StringVarP(&opts.scriptFile, "script-file", "F", "", "like --script but read from a file")
	flags.BoolVarP(&opts.silent, "silent", "s", false, "only print the result")
	flags.BoolVar(&opts.strict, "strict", false, "fail on unresolved placeholders instead of prompting")
	flags.StringVarP(&opts.output, "output", "o", "", "output format: table, json or csv")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "result cache directory (env DUCKGS_CACHE_DIR)")
	flags.BoolVar(&opts.checkBucket, "check-bucket", false, "verify the bucket is reachable before querying")
	flags.BoolVarP(&opts.examples, "examples", "x", false, "show usage examples and exit")

	return rootCmd
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.examples {
		printExamples(cmd.OutOrStdout())
		return nil
	}

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := render.ValidateFormat(cfg.Output); err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)

	queryText, err := readQuery(opts)
	if err != nil {
		return err
	}

	bindings := make(map[string]string, len(cfg.Kwargs)+1)
	bindings["bucket"] = storage.NormalizeBucket(cfg.Bucket)
	for k, v := range cfg.Kwargs {
		bindings[k] = v
	}

	resolver := &template.Resolver{Prompter: template.SurveyPrompter{}, Strict: cfg.Strict}
	resolved, err := resolver.Resolve(queryText, bindings)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.Info("resolved query", "sql", resolved)
	}

	ctx := cmd.Context()
	if cfg.CheckBucketOnAccess && bindings["bucket"] != "" {
		if err := storage.CheckBucket(ctx, bindings["bucket"], cfg.GCSCredentialsFile); err != nil {
			return err
		}
	}

	store, err := cache.Open(cfg.CacheDir, logger)
	if err != nil {
		return err
	}

	eng, err := engine.Open(engine.Options{
		RemoteFS:    true,
		Credentials: storage.HMACCredentials{KeyID: cfg.GCSKeyID, Secret: cfg.GCSSecret},
	})
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	executor := engine.NewExecutor(eng, store, logger)
	result, elapsed, cached, err := executor.Execute(ctx, resolved)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		if cached {
			logger.Info("loaded from cache", "path", store.Path(resolved))
		} else {
			logger.Info("query executed", "elapsed", elapsed.Seconds(), "row_count", result.RowCount())
		}
	}

	evaluator := postprocess.NewEvaluator(cmd.OutOrStdout())
	if len(opts.evalSteps) > 0 {
		steps := make([]postprocess.Step, 0, len(opts.evalSteps))
		for _, expr := range opts.evalSteps {
			steps = append(steps, postprocess.Expr(expr))
		}
		result, err = evaluator.Apply(steps, result)
		if err != nil {
			return err
		}
	}

	if script, err := readScript(opts); err != nil {
		return err
	} else if script != "" {
		result, err = evaluator.ExecScript(script, result)
		if err != nil {
			return err
		}
	}

	return render.New(cmd.OutOrStdout(), cfg.Output).Render(result)
}

// buildConfig layers flag values over environment and user-config defaults.
func buildConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	// Config file is optional.
	if userCfg, err := LoadUserConfig(); err == nil {
		if cfg.Bucket == "" {
			cfg.Bucket = userCfg.Bucket
		}
		if cfg.CacheDir == "" {
			cfg.CacheDir = userCfg.CacheDir
		}
		if cfg.Output == "" {
			cfg.Output = userCfg.Output
		}
		if userCfg.Strict {
			cfg.Strict = true
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bucket") {
		cfg.Bucket = opts.bucket
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = opts.cacheDir
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if opts.kwargs != "" {
		kwargs, err := config.ParseKwargs(opts.kwargs)
		if err != nil {
			return nil, err
		}
		for k, v := range kwargs {
			cfg.Kwargs[k] = v
		}
	}

	cfg.Verbose = !opts.silent
	cfg.CheckBucketOnAccess = opts.checkBucket

	// Without a terminal there is nobody to prompt.
	cfg.Strict = cfg.Strict || opts.strict || !term.IsTerminal(int(os.Stdin.Fd()))

	return cfg, nil
}

// readQuery returns the query text from --query or --query-file. Having
// neither is a usage error and terminates before any cache interaction.
func readQuery(opts *options) (string, error) {
	if opts.query != "" {
		return opts.query, nil
	}
	if opts.queryFile != "" {
		data, err := os.ReadFile(opts.queryFile)
		if err != nil {
			return "", fmt.Errorf("read query file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", domain.ErrUsage("please provide a query (--query) or a query file (--query-file)")
}

func readScript(opts *options) (string, error) {
	if opts.script != "" {
		return opts.script, nil
	}
	if opts.scriptFile != "" {
		data, err := os.ReadFile(opts.scriptFile)
		if err != nil {
			return "", fmt.Errorf("read script file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
