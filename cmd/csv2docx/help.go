package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: csv2docx <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a CSV or JSON file into a Word document")
	fmt.Fprintln(w, "  templates  List templates defined in the config")
	fmt.Fprintln(w, "  version    Print the version")
	fmt.Fprintln(w, "  help       Show help for a command")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: csv2docx convert <input> --template <id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config string          template registry config file")
	fmt.Fprintln(w, "  -t, --template string        template ID to render with")
	fmt.Fprintln(w, "  -o, --output-dir string      directory for the generated document")
	fmt.Fprintln(w, "      --validate-only          check config and rows without writing output")
	fmt.Fprintln(w, "      --no-images              skip downloading inline images")
	fmt.Fprintln(w, "      --image-timeout duration per-attempt image download timeout")
	fmt.Fprintln(w, "      --max-retries int        image download attempts per URL")
	fmt.Fprintln(w, "      --prefetch-workers int   concurrent image prefetch downloads (default 4)")
	fmt.Fprintln(w, "  -q, --quiet                  suppress non-error output")
	fmt.Fprintln(w, "  -v, --verbose                print per-row progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CSV2DOCX_CONFIG, CSV2DOCX_TEMPLATE, CSV2DOCX_OUTPUT_DIR,")
	fmt.Fprintln(w, "  CSV2DOCX_IMAGE_TIMEOUT, CSV2DOCX_MAX_RETRIES, CSV2DOCX_PREFETCH_WORKERS")
}

// printTemplatesUsage prints usage for the templates command.
func printTemplatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: csv2docx templates [--config file]")
}

// runHelp shows help for a specific command, or general usage.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "templates":
		printTemplatesUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: csv2docx version")
	default:
		printUsage(env.Stdout)
	}
}
