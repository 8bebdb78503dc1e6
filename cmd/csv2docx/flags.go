package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// convertFlags holds flags for the convert command.
type convertFlags struct {
	config          string
	template        string
	outputDir       string
	validateOnly    bool
	noImages        bool
	imageTimeout    time.Duration
	maxRetries      int
	prefetchWorkers int
	quiet           bool
	verbose         bool
}

// newConvertFlagSet builds the flag set for the convert command.
func newConvertFlagSet(cf *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVarP(&cf.config, "config", "c", "", "template registry config file")
	fs.StringVarP(&cf.template, "template", "t", "", "template ID to render with")
	fs.StringVarP(&cf.outputDir, "output-dir", "o", "", "directory for the generated document")
	fs.BoolVar(&cf.validateOnly, "validate-only", false, "check config and rows without writing output")
	fs.BoolVar(&cf.noImages, "no-images", false, "skip downloading inline images")
	fs.DurationVar(&cf.imageTimeout, "image-timeout", 0, "per-attempt image download timeout")
	fs.IntVar(&cf.maxRetries, "max-retries", 0, "image download attempts per URL")
	fs.IntVar(&cf.prefetchWorkers, "prefetch-workers", 4, "concurrent image prefetch downloads (0 disables)")
	fs.BoolVarP(&cf.quiet, "quiet", "q", false, "suppress non-error output")
	fs.BoolVarP(&cf.verbose, "verbose", "v", false, "print per-row progress")
	fs.Usage = func() { printConvertUsage(os.Stderr) }
	return fs
}

// templatesFlags holds flags for the templates command.
type templatesFlags struct {
	config string
}

func newTemplatesFlagSet(tf *templatesFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("templates", flag.ContinueOnError)
	fs.StringVarP(&tf.config, "config", "c", "", "template registry config file")
	fs.Usage = func() { printTemplatesUsage(os.Stderr) }
	return fs
}

// applyEnvDefaults fills flags the user left unset from the environment.
// Explicit flags always win.
func (cf *convertFlags) applyEnvDefaults(fs *flag.FlagSet, env *envConfig) {
	if !fs.Changed("config") && env.ConfigPath != "" {
		cf.config = env.ConfigPath
	}
	if !fs.Changed("template") && env.Template != "" {
		cf.template = env.Template
	}
	if !fs.Changed("output-dir") && env.OutputDir != "" {
		cf.outputDir = env.OutputDir
	}
	if !fs.Changed("image-timeout") && env.ImageTimeout > 0 {
		cf.imageTimeout = env.ImageTimeout
	}
	if !fs.Changed("max-retries") && env.MaxRetries > 0 {
		cf.maxRetries = env.MaxRetries
	}
	if !fs.Changed("prefetch-workers") && env.PrefetchWorkers > 0 {
		cf.prefetchWorkers = env.PrefetchWorkers
	}
}

// validate rejects contradictory flag combinations.
func (cf *convertFlags) validate() error {
	if cf.quiet && cf.verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if cf.template == "" {
		return fmt.Errorf("%w: --template is required", ErrUsage)
	}
	if cf.maxRetries < 0 {
		return fmt.Errorf("%w: --max-retries cannot be negative", ErrUsage)
	}
	if cf.prefetchWorkers < 0 {
		return fmt.Errorf("%w: --prefetch-workers cannot be negative", ErrUsage)
	}
	return nil
}
