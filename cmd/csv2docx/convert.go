package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	csv2docx "github.com/alnah/go-csv2docx"
	"github.com/alnah/go-csv2docx/internal/fileutil"
	"github.com/alnah/go-csv2docx/internal/hints"
)

// ErrUsage marks invalid invocations: bad flags, missing arguments.
var ErrUsage = errors.New("invalid usage")

// run dispatches to a subcommand. Errors are returned for main to map onto
// exit codes.
func run(args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command", ErrUsage)
	}

	switch args[1] {
	case "convert":
		return runConvert(args[2:], env)
	case "templates":
		return runTemplates(args[2:], env)
	case "version", "--version":
		fmt.Fprintln(env.Stdout, Version)
		return nil
	case "help", "--help", "-h":
		runHelp(args[2:], env)
		return nil
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[1])
	}
}

// findConfig resolves the registry config path: explicit flag or env first,
// then the working directory, then the user config directory.
func findConfig(explicit string, env *Environment) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	searched := []string{"csv2docx.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		searched = append(searched, filepath.Join(home, ".config", "csv2docx", "config.yaml"))
	}
	for _, p := range searched {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: searched %s%s",
		csv2docx.ErrConfigNotFound,
		strings.Join(searched, ", "),
		hints.ForConfigNotFound(searched))
}

func runConvert(args []string, env *Environment) error {
	cf := &convertFlags{}
	fs := newConvertFlagSet(cf)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig(env.Getenv)
	cf.applyEnvDefaults(fs, envCfg)
	if err := cf.validate(); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing input file", ErrUsage)
	}
	input := fs.Arg(0)

	if !cf.quiet {
		warnUnknownEnvVars(env.Stderr, os.Environ())
	}

	configPath, err := findConfig(cf.config, env)
	if err != nil {
		return err
	}
	reg, err := csv2docx.LoadRegistry(configPath)
	if err != nil {
		return decorate(err, nil)
	}

	rows, err := loadRows(input)
	if err != nil {
		return decorate(err, reg)
	}
	if cf.verbose {
		fmt.Fprintf(env.Stderr, "loaded %d rows from %s\n", len(rows), input)
	}

	gen := csv2docx.NewGenerator(reg, cf.generatorOptions(env)...)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cf.validateOnly {
		result, err := gen.Validate(ctx, cf.template, rows)
		if err != nil {
			return decorate(err, reg)
		}
		reportValidation(env, cf, result)
		return nil
	}

	result, err := gen.Generate(ctx, cf.template, rows)
	if err != nil {
		return decorate(err, reg)
	}
	reportConversion(env, cf, result)
	return nil
}

// generatorOptions translates CLI flags into library options.
func (cf *convertFlags) generatorOptions(env *Environment) []csv2docx.Option {
	opts := []csv2docx.Option{
		csv2docx.WithNow(env.Now),
		csv2docx.WithPrefetchWorkers(cf.prefetchWorkers),
	}
	if cf.outputDir != "" {
		opts = append(opts, csv2docx.WithOutputDir(cf.outputDir))
	}
	if cf.noImages {
		opts = append(opts, csv2docx.WithoutImages())
	}
	policy := csv2docx.DefaultRetryPolicy
	if cf.imageTimeout > 0 {
		policy.Timeout = cf.imageTimeout
	}
	if cf.maxRetries > 0 {
		policy.MaxAttempts = cf.maxRetries
	}
	opts = append(opts, csv2docx.WithRetryPolicy(policy))
	return opts
}

// decorate appends an actionable hint to well-known errors.
func decorate(err error, reg *csv2docx.Registry) error {
	switch {
	case errors.Is(err, csv2docx.ErrUnknownTemplate) && reg != nil:
		return fmt.Errorf("%w%s", err, hints.ForUnknownTemplate(reg.Available()))
	case errors.Is(err, csv2docx.ErrTemplateFileNotFound):
		return fmt.Errorf("%w%s", err, hints.ForTemplateFile())
	case errors.Is(err, csv2docx.ErrWriteDocument):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	case errors.Is(err, ErrInputEncoding):
		return fmt.Errorf("%w%s", err, hints.ForInputEncoding())
	case errors.Is(err, csv2docx.ErrImageFetch):
		return fmt.Errorf("%w%s", err, hints.ForImageFetch())
	default:
		return err
	}
}

// reportConversion prints the run outcome, gated by --quiet/--verbose.
func reportConversion(env *Environment, cf *convertFlags, result *csv2docx.Result) {
	printRowIssues(env, cf, result)
	if cf.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "wrote %s (%d rendered, %d skipped, %d failed)\n",
		result.Path, result.Rendered(), result.Skipped(), result.Failed())
}

// reportValidation prints the dry-run outcome.
func reportValidation(env *Environment, cf *convertFlags, result *csv2docx.Result) {
	printRowIssues(env, cf, result)
	if cf.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "validation passed: template %s, %d rendered, %d skipped, %d failed\n",
		result.Template, result.Rendered(), result.Skipped(), result.Failed())
}

// printRowIssues writes warnings and failures to stderr. Verbose mode adds
// one line per row.
func printRowIssues(env *Environment, cf *convertFlags, result *csv2docx.Result) {
	for _, w := range result.Warnings {
		fmt.Fprintf(env.Stderr, "warning: %s\n", w)
	}
	for _, row := range result.Rows {
		if cf.verbose {
			line := fmt.Sprintf("row %d: %s", row.Index+1, row.Status)
			if row.Title != "" {
				line += " " + row.Title
			}
			if row.Reason != "" {
				line += " (" + row.Reason + ")"
			}
			fmt.Fprintln(env.Stderr, line)
		} else if row.Status == csv2docx.RowFailed {
			fmt.Fprintf(env.Stderr, "warning: row %d failed: %s\n", row.Index+1, row.Reason)
		}
		for _, w := range row.Warnings {
			fmt.Fprintf(env.Stderr, "warning: row %d: %s\n", row.Index+1, w)
		}
	}
}

// runTemplates lists the templates a config defines.
func runTemplates(args []string, env *Environment) error {
	tf := &templatesFlags{}
	fs := newTemplatesFlagSet(tf)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if tf.config == "" {
		tf.config = loadEnvConfig(env.Getenv).ConfigPath
	}

	configPath, err := findConfig(tf.config, env)
	if err != nil {
		return err
	}
	reg, err := csv2docx.LoadRegistry(configPath)
	if err != nil {
		return err
	}

	for _, id := range reg.Available() {
		d, _ := reg.Describe(id)
		if d.Name != "" && d.Name != id {
			fmt.Fprintf(env.Stdout, "%s\t%s\n", id, d.Name)
		} else {
			fmt.Fprintln(env.Stdout, id)
		}
	}
	return nil
}
