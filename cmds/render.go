package cmds

import (
	"context"
	"fmt"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/prompt-pipeline/pkg/descriptor"
	"github.com/go-go-golems/prompt-pipeline/pkg/render"
)

type RenderCommand struct{ *gcmds.CommandDescription }

type RenderSettings struct {
	Descriptor   string `glazed.parameter:"descriptor"`
	TemplatesDir string `glazed.parameter:"templates-dir"`
}

func NewRenderCommand() (*RenderCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"render",
		gcmds.WithShort("Render one descriptor's prompt to stdout without any network access"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("descriptor", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("d"), parameters.WithHelp("Path to a job descriptor JSON file")),
			parameters.NewParameterDefinition("templates-dir", parameters.ParameterTypeString, parameters.WithDefault("prompt_templates"), parameters.WithHelp("Directory holding template files")),
		),
		gcmds.WithLayersList(layer),
	)
	return &RenderCommand{cd}, nil
}

func (c *RenderCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &RenderSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}

	d, err := descriptor.Load(s.Descriptor)
	if err != nil {
		return err
	}
	r := &render.Renderer{Dir: s.TemplatesDir}
	prompt, err := r.Render(d.Template, d.Variables)
	if err != nil {
		return err
	}
	fmt.Println(prompt)
	return nil
}

var _ gcmds.BareCommand = &RenderCommand{}
