// Package csv2docx converts tabular records into formatted Word documents
// driven by named templates.
//
// # Quick Start
//
// Load a template registry, create a generator, and convert rows:
//
//	reg, err := csv2docx.LoadRegistry("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen := csv2docx.NewGenerator(reg, csv2docx.WithOutputDir("out"))
//	result, err := gen.Generate(ctx, "daily", rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("written:", result.Path)
//
// The result reports the output path plus a per-row outcome: rendered rows,
// skipped rows, and any warnings collected along the way. A single bad row
// never aborts the document.
//
// # Generation Pipeline
//
// Each run follows these stages:
//
//  1. Resolve the template (start/end .docx files, bookmark, styles)
//  2. Render every row in order (headings, title, content, source line)
//  3. Download and normalize remote images referenced inline in content
//  4. Merge the end template, renaming colliding bookmarks
//  5. Finalize atomically under a timestamped filename
//
// # Configuration
//
// The registry is a YAML file mapping template IDs to descriptors; see
// Descriptor for the schema. Generator behavior is customized with
// functional options:
//
//	gen := csv2docx.NewGenerator(reg,
//	    csv2docx.WithOutputDir("reports"),
//	    csv2docx.WithRetryPolicy(csv2docx.RetryPolicy{MaxAttempts: 5}),
//	    csv2docx.WithPrefetchWorkers(8),
//	)
package csv2docx
