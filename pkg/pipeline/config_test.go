package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-go-golems/prompt-pipeline/pkg/bedrock"
)

func clearPipelineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AWS_REGION", "S3_BUCKET", "ENVIRONMENT", "MODEL_ID"} {
		t.Setenv(key, "")
	}
}

func TestResolve_MissingRegion(t *testing.T) {
	clearPipelineEnv(t)

	cfg := &Config{}
	err := cfg.Resolve(true)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if ce.Setting != "AWS_REGION" {
		t.Errorf("setting = %q, want AWS_REGION", ce.Setting)
	}
}

func TestResolve_MissingBucketWhenUploadRequired(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "us-east-1")

	cfg := &Config{}
	err := cfg.Resolve(true)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if ce.Setting != "S3_BUCKET" {
		t.Errorf("setting = %q, want S3_BUCKET", ce.Setting)
	}
}

func TestResolve_BucketOptionalWithoutUpload(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "us-east-1")

	cfg := &Config{}
	if err := cfg.Resolve(false); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestResolve_EnvironmentDefaultsToBeta(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "bucket")

	cfg := &Config{}
	if err := cfg.Resolve(true); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Environment != "beta" {
		t.Errorf("environment = %q, want beta", cfg.Environment)
	}
}

func TestResolve_EnvironmentVariableFallbacks(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "env-bucket")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0")

	cfg := &Config{}
	if err := cfg.Resolve(true); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("region = %q", cfg.Region)
	}
	if cfg.Bucket != "env-bucket" {
		t.Errorf("bucket = %q", cfg.Bucket)
	}
	if cfg.Environment != "prod" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.ModelID != "anthropic.claude-3-haiku-20240307-v1:0" {
		t.Errorf("model id = %q", cfg.ModelID)
	}
}

func TestResolve_FlagsTakePrecedenceOverEnv(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "env-bucket")

	cfg := &Config{Region: "us-west-2", Bucket: "flag-bucket"}
	if err := cfg.Resolve(true); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Region != "us-west-2" {
		t.Errorf("region = %q, want us-west-2", cfg.Region)
	}
	if cfg.Bucket != "flag-bucket" {
		t.Errorf("bucket = %q, want flag-bucket", cfg.Bucket)
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("AWS_REGION", "us-east-1")

	cfg := &Config{}
	if err := cfg.Resolve(false); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.PromptsDir != "prompts" {
		t.Errorf("prompts dir = %q", cfg.PromptsDir)
	}
	if cfg.TemplatesDir != "prompt_templates" {
		t.Errorf("templates dir = %q", cfg.TemplatesDir)
	}
	if cfg.OutputsDir != "outputs" {
		t.Errorf("outputs dir = %q", cfg.OutputsDir)
	}
	if cfg.ModelID != bedrock.DefaultModelID {
		t.Errorf("model id = %q", cfg.ModelID)
	}
}

func TestApplyFile(t *testing.T) {
	clearPipelineEnv(t)
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	settings := "prompts_dir: jobs\ntemplates_dir: tpl\nenvironment: staging\nmodel_id: custom-model\n"
	if err := os.WriteFile(path, []byte(settings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg := &Config{}
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}
	if cfg.PromptsDir != "jobs" {
		t.Errorf("prompts dir = %q", cfg.PromptsDir)
	}
	if cfg.TemplatesDir != "tpl" {
		t.Errorf("templates dir = %q", cfg.TemplatesDir)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.ModelID != "custom-model" {
		t.Errorf("model id = %q", cfg.ModelID)
	}
}

func TestApplyFile_FlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte("prompts_dir: from-file\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg := &Config{PromptsDir: "from-flag"}
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}
	if cfg.PromptsDir != "from-flag" {
		t.Errorf("prompts dir = %q, want from-flag", cfg.PromptsDir)
	}
}
