package awslayer

import (
	"fmt"

	glzcms "github.com/go-go-golems/glazed/pkg/cmds"
	glzlayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
)

const AWSLayerSlug = "aws"

// AWSSettings carry the flag-level AWS and environment configuration. Empty
// values fall back to environment variables during config resolution.
type AWSSettings struct {
	Region      string `glazed.parameter:"aws-region"`
	Bucket      string `glazed.parameter:"s3-bucket"`
	Environment string `glazed.parameter:"environment"`
	ModelID     string `glazed.parameter:"model-id"`
}

// NewAWSLayer defines a reusable parameter layer for AWS and deployment
// environment settings.
func NewAWSLayer() (glzlayers.ParameterLayer, error) {
	return glzlayers.NewParameterLayer(
		AWSLayerSlug,
		"AWS and environment settings",
		glzlayers.WithParameterDefinitions(
			parameters.NewParameterDefinition(
				"aws-region",
				parameters.ParameterTypeString,
				parameters.WithHelp("AWS region (falls back to AWS_REGION)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"s3-bucket",
				parameters.ParameterTypeString,
				parameters.WithHelp("S3 bucket for published artifacts (falls back to S3_BUCKET)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"environment",
				parameters.ParameterTypeString,
				parameters.WithHelp("Deployment environment tag namespacing uploads (falls back to ENVIRONMENT, default beta)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"model-id",
				parameters.ParameterTypeString,
				parameters.WithHelp("Bedrock model identifier (falls back to MODEL_ID)"),
				parameters.WithDefault(""),
			),
		),
	)
}

// AddAWSLayerToCommand attaches the layer to a Glazed command description.
func AddAWSLayerToCommand(c glzcms.Command) (glzcms.Command, error) {
	l, err := NewAWSLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Layers.Set(AWSLayerSlug, l)
	return c, nil
}

// GetAWSSettings returns parsed AWS settings from the ParsedLayers.
func GetAWSSettings(parsed *glzlayers.ParsedLayers) (*AWSSettings, error) {
	var s AWSSettings
	if err := parsed.InitializeStruct(AWSLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse aws settings: %w", err)
	}
	return &s, nil
}
