package pipeline

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/prompt-pipeline/pkg/bedrock"
)

// DefaultEnvironment namespaces uploads when no environment tag is set.
const DefaultEnvironment = "beta"

// knownEnvironments are the deployment stages uploads are normally
// namespaced under. Other tags are accepted with a warning.
var knownEnvironments = map[string]struct{}{
	"dev":     {},
	"beta":    {},
	"staging": {},
	"prod":    {},
}

// ConfigError reports a required setting that is missing at startup. It is
// raised once, before any descriptor is processed.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: missing required setting %s", e.Setting)
}

// Config carries all process-wide settings. It is constructed once at entry
// and passed into the runner and publisher; nothing reads the environment
// after resolution.
type Config struct {
	Region      string
	Bucket      string
	Environment string
	ModelID     string

	PromptsDir   string
	TemplatesDir string
	OutputsDir   string
}

// fileSettings is the optional YAML settings file layered under flags and
// environment variables.
type fileSettings struct {
	PromptsDir   string `yaml:"prompts_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	OutputsDir   string `yaml:"outputs_dir"`
	Environment  string `yaml:"environment"`
	ModelID      string `yaml:"model_id"`
}

// ApplyFile fills unset fields from a YAML settings file.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if c.PromptsDir == "" {
		c.PromptsDir = fs.PromptsDir
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = fs.TemplatesDir
	}
	if c.OutputsDir == "" {
		c.OutputsDir = fs.OutputsDir
	}
	if c.Environment == "" {
		c.Environment = fs.Environment
	}
	if c.ModelID == "" {
		c.ModelID = fs.ModelID
	}
	return nil
}

// lookup resolves one setting: flag value first, then the process
// environment, then the viper config file.
func lookup(flagValue, envName, viperKey string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return viper.GetString(viperKey)
}

// Resolve fills unset fields from environment variables, the viper config,
// and defaults, then validates required settings. requireUpload controls
// whether the bucket is mandatory (it is not for dry runs or local-only
// runs).
func (c *Config) Resolve(requireUpload bool) error {
	c.Region = lookup(c.Region, "AWS_REGION", "aws-region")
	if c.Region == "" {
		return &ConfigError{Setting: "AWS_REGION"}
	}
	c.Bucket = lookup(c.Bucket, "S3_BUCKET", "s3-bucket")
	if requireUpload && c.Bucket == "" {
		return &ConfigError{Setting: "S3_BUCKET"}
	}
	c.Environment = lookup(c.Environment, "ENVIRONMENT", "environment")
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if _, ok := knownEnvironments[c.Environment]; !ok {
		log.Warn().Str("environment", c.Environment).Msg("environment tag outside the usual set")
	}
	c.ModelID = lookup(c.ModelID, "MODEL_ID", "model-id")
	if c.ModelID == "" {
		c.ModelID = bedrock.DefaultModelID
	}
	if c.PromptsDir == "" {
		c.PromptsDir = "prompts"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = "prompt_templates"
	}
	if c.OutputsDir == "" {
		c.OutputsDir = "outputs"
	}
	log.Debug().
		Str("region", c.Region).
		Str("environment", c.Environment).
		Str("model", c.ModelID).
		Str("prompts", c.PromptsDir).
		Msg("resolved configuration")
	return nil
}
