package cmds

import (
	"context"
	"fmt"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/prompt-pipeline/pkg/artifact"
	"github.com/go-go-golems/prompt-pipeline/pkg/awslayer"
	"github.com/go-go-golems/prompt-pipeline/pkg/bedrock"
	"github.com/go-go-golems/prompt-pipeline/pkg/console"
	"github.com/go-go-golems/prompt-pipeline/pkg/pipeline"
	"github.com/go-go-golems/prompt-pipeline/pkg/render"
)

type RunCommand struct{ *gcmds.CommandDescription }

type RunSettings struct {
	Config          string `glazed.parameter:"config"`
	PromptsDir      string `glazed.parameter:"prompts-dir"`
	TemplatesDir    string `glazed.parameter:"templates-dir"`
	OutputsDir      string `glazed.parameter:"outputs-dir"`
	ContinueOnError bool   `glazed.parameter:"continue-on-error"`
	DryRun          bool   `glazed.parameter:"dry-run"`
	SkipUpload      bool   `glazed.parameter:"skip-upload"`
	NoColor         bool   `glazed.parameter:"no-color"`
}

func NewRunCommand() (*RunCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}

	cd := gcmds.NewCommandDescription(
		"run",
		gcmds.WithShort("Process every job descriptor: render, generate, write, and upload"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("config", parameters.ParameterTypeString, parameters.WithHelp("Optional YAML settings file"), parameters.WithShortFlag("c")),
			parameters.NewParameterDefinition("prompts-dir", parameters.ParameterTypeString, parameters.WithHelp("Directory holding *.json job descriptors (default prompts)")),
			parameters.NewParameterDefinition("templates-dir", parameters.ParameterTypeString, parameters.WithHelp("Directory holding template files (default prompt_templates)")),
			parameters.NewParameterDefinition("outputs-dir", parameters.ParameterTypeString, parameters.WithHelp("Directory artifacts are written to (default outputs)")),
			parameters.NewParameterDefinition("continue-on-error", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Keep processing remaining jobs after a failure")),
			parameters.NewParameterDefinition("dry-run", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Render prompts to stdout without generating or uploading")),
			parameters.NewParameterDefinition("skip-upload", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Write artifacts locally without publishing to S3")),
			parameters.NewParameterDefinition("no-color", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Disable colored console output")),
		),
		gcmds.WithLayersList(layer),
	)
	_, err = awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &RunCommand{cd}, nil
}

func (c *RunCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &RunSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	as, err := awslayer.GetAWSSettings(parsed)
	if err != nil {
		return err
	}
	console.Init(s.NoColor)

	cfg := &pipeline.Config{
		Region:       as.Region,
		Bucket:       as.Bucket,
		Environment:  as.Environment,
		ModelID:      as.ModelID,
		PromptsDir:   s.PromptsDir,
		TemplatesDir: s.TemplatesDir,
		OutputsDir:   s.OutputsDir,
	}
	if s.Config != "" {
		if err := cfg.ApplyFile(s.Config); err != nil {
			return err
		}
	}
	requireUpload := !s.DryRun && !s.SkipUpload
	if err := cfg.Resolve(requireUpload); err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Config:   cfg,
		Renderer: &render.Renderer{Dir: cfg.TemplatesDir},
		Writer:   &artifact.Writer{Dir: cfg.OutputsDir},
		Options: pipeline.Options{
			ContinueOnError: s.ContinueOnError,
			DryRun:          s.DryRun,
		},
	}

	if !s.DryRun {
		client, err := bedrock.NewClient(ctx, cfg.Region, cfg.ModelID)
		if err != nil {
			return fmt.Errorf("failed to create generation client: %w", err)
		}
		runner.Generator = client
	}
	if requireUpload {
		publisher, err := artifact.NewPublisher(ctx, cfg.Region, cfg.Bucket, cfg.Environment)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		runner.Publisher = publisher
	}

	return runner.Run(ctx)
}

var _ gcmds.BareCommand = &RunCommand{}
