package cmds

import (
	"context"
	"os"
	"path/filepath"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/prompt-pipeline/pkg/descriptor"
)

type ValidateCommand struct{ *gcmds.CommandDescription }

type ValidateSettings struct {
	PromptsDir   string `glazed.parameter:"prompts-dir"`
	TemplatesDir string `glazed.parameter:"templates-dir"`
}

func NewValidateCommand() (*ValidateCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"validate",
		gcmds.WithShort("Validate job descriptors and check their templates exist"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("prompts-dir", parameters.ParameterTypeString, parameters.WithDefault("prompts"), parameters.WithShortFlag("p"), parameters.WithHelp("Directory holding *.json job descriptors")),
			parameters.NewParameterDefinition("templates-dir", parameters.ParameterTypeString, parameters.WithDefault("prompt_templates"), parameters.WithHelp("Directory holding template files")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	return &ValidateCommand{cd}, nil
}

func (c *ValidateCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ValidateSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}

	paths, err := descriptor.Discover(s.PromptsDir)
	if err != nil {
		return err
	}

	seenSlugs := map[string]string{}
	for _, path := range paths {
		d, err := descriptor.Load(path)
		if err != nil {
			row := types.NewRow(
				types.MRP("path", path),
				types.MRP("status", "error"),
				types.MRP("message", err.Error()),
			)
			if err := gp.AddRow(ctx, row); err != nil {
				return err
			}
			continue
		}

		status := "ok"
		message := ""
		if _, err := os.Stat(filepath.Join(s.TemplatesDir, d.Template)); err != nil {
			status = "error"
			message = "template '" + d.Template + "' not found"
		} else if prev, dup := seenSlugs[d.Slug]; dup {
			// duplicate slugs collide on the local artifact; last write wins
			status = "warning"
			message = "slug '" + d.Slug + "' already used by " + prev
		}
		seenSlugs[d.Slug] = path

		row := types.NewRow(
			types.MRP("path", path),
			types.MRP("slug", d.Slug),
			types.MRP("status", status),
			types.MRP("message", message),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &ValidateCommand{}
