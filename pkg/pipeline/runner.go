package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/prompt-pipeline/pkg/artifact"
	"github.com/go-go-golems/prompt-pipeline/pkg/console"
	"github.com/go-go-golems/prompt-pipeline/pkg/descriptor"
	"github.com/go-go-golems/prompt-pipeline/pkg/render"
)

// Generator produces text for a rendered prompt. The Bedrock client is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Publisher uploads a local artifact and returns the remote destination.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// Options control run behavior beyond the resolved configuration.
type Options struct {
	// ContinueOnError keeps processing remaining jobs after a failure
	// instead of aborting the whole run.
	ContinueOnError bool
	// DryRun renders prompts to stdout without generating, writing, or
	// uploading anything.
	DryRun bool
}

// Runner drives the per-job pipeline: load descriptor, render template,
// generate text, write the artifact, publish it. Jobs are independent and run
// strictly sequentially; the only shared state is the immutable configuration.
type Runner struct {
	Config    *Config
	Renderer  *render.Renderer
	Writer    *artifact.Writer
	Generator Generator
	// Publisher may be nil when uploads are skipped.
	Publisher Publisher
	Options   Options
}

// Run discovers all descriptors and processes each in discovery order. By
// default the first job failure aborts the run; with ContinueOnError the
// remaining jobs still execute and a summary error is returned at the end.
func (r *Runner) Run(ctx context.Context) error {
	paths, err := descriptor.Discover(r.Config.PromptsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println(console.Warnf("no descriptors found in %s", r.Config.PromptsDir))
		return nil
	}

	var failures []error
	for i, path := range paths {
		fmt.Println(console.JobHeader(i+1, len(paths), filepath.Base(path), ""))
		if err := r.runJob(ctx, path); err != nil {
			if !r.Options.ContinueOnError {
				return fmt.Errorf("job '%s' failed: %w", filepath.Base(path), err)
			}
			fmt.Fprintf(os.Stderr, "Job '%s' failed: %s\n", filepath.Base(path), console.ShortError(err))
			failures = append(failures, err)
			continue
		}
		fmt.Printf("✓ Job '%s' completed successfully\n", filepath.Base(path))
	}

	if len(failures) > 0 {
		fmt.Printf("\nCompleted with %d errors out of %d jobs\n", len(failures), len(paths))
		return fmt.Errorf("run completed with %d errors", len(failures))
	}
	fmt.Printf("\n✓ All %d jobs completed successfully\n", len(paths))
	return nil
}

func (r *Runner) runJob(ctx context.Context, path string) error {
	d, err := descriptor.Load(path)
	if err != nil {
		return err
	}
	log.Debug().Str("slug", d.Slug).Str("template", d.Template).Msg("job start")

	prompt, err := r.Renderer.Render(d.Template, d.Variables)
	if err != nil {
		return err
	}

	if r.Options.DryRun {
		fmt.Println(prompt)
		return nil
	}

	text, err := r.Generator.Generate(ctx, prompt, d.MaxTokens)
	if err != nil {
		return err
	}

	outPath, err := r.Writer.Write(d.Slug, d.OutputFormat, text)
	if err != nil {
		return err
	}
	log.Debug().Str("slug", d.Slug).Str("output", outPath).Msg("artifact written")

	if r.Publisher == nil {
		return nil
	}
	destination, err := r.Publisher.Publish(ctx, outPath)
	if err != nil {
		return err
	}
	fmt.Println(console.Uploaded(destination))
	return nil
}
