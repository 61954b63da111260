package cmds

import (
	"context"
	"sort"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/prompt-pipeline/pkg/artifact"
	"github.com/go-go-golems/prompt-pipeline/pkg/descriptor"
)

type ListCommand struct{ *gcmds.CommandDescription }

type ListSettings struct {
	PromptsDir string `glazed.parameter:"prompts-dir"`
}

func NewListCommand() (*ListCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"list",
		gcmds.WithShort("List discovered job descriptors as structured rows"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("prompts-dir", parameters.ParameterTypeString, parameters.WithDefault("prompts"), parameters.WithShortFlag("p"), parameters.WithHelp("Directory holding *.json job descriptors")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	return &ListCommand{cd}, nil
}

// GlazeCommand: output structured rows
func (c *ListCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ListSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}

	paths, err := descriptor.Discover(s.PromptsDir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		d, err := descriptor.Load(path)
		if err != nil {
			row := types.NewRow(
				types.MRP("path", path),
				types.MRP("error", err.Error()),
			)
			if err := gp.AddRow(ctx, row); err != nil {
				return err
			}
			continue
		}
		vars := make([]string, 0, len(d.Variables))
		for k := range d.Variables {
			vars = append(vars, k)
		}
		sort.Strings(vars)
		row := types.NewRow(
			types.MRP("path", path),
			types.MRP("slug", d.Slug),
			types.MRP("template", d.Template),
			types.MRP("output_format", d.OutputFormat),
			types.MRP("extension", artifact.ExtensionFor(d.OutputFormat)),
			types.MRP("max_tokens", d.MaxTokens),
			types.MRP("variables", vars),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &ListCommand{}
