package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog/log"
)

// DefaultModelID is the model invoked when no override is configured.
const DefaultModelID = "anthropic.claude-3-sonnet-20240229-v1:0"

const anthropicVersion = "bedrock-2023-05-31"

// GenerationError reports a generation call that failed or returned a
// response without a text segment. Generation calls are never retried.
type GenerationError struct {
	ModelID string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation call to model %s failed: %v", e.ModelID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client wraps the Bedrock runtime API for single-shot text generation.
type Client struct {
	runtime invokeAPI
	modelID string
}

// invokeAPI is the slice of the Bedrock runtime client this package uses.
type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// NewClient creates a Bedrock client for the given region. Credentials come
// from the default AWS credential chain.
func NewClient(ctx context.Context, region, modelID string) (*Client, error) {
	if modelID == "" {
		modelID = DefaultModelID
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{runtime: bedrockruntime.NewFromConfig(cfg), modelID: modelID}, nil
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type invokeResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends one blocking request carrying the prompt as a user turn and
// returns the first generated text segment. One failure aborts the job; there
// is no retry, streaming, or multi-turn context.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []message{
			{Role: "user", Content: "Human: " + prompt},
		},
	})
	if err != nil {
		return "", &GenerationError{ModelID: c.modelID, Err: err}
	}

	log.Debug().Str("model", c.modelID).Int("max_tokens", maxTokens).Int("prompt_bytes", len(prompt)).Msg("invoking model")
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", &GenerationError{ModelID: c.modelID, Err: err}
	}

	var resp invokeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", &GenerationError{ModelID: c.modelID, Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", &GenerationError{ModelID: c.modelID, Err: fmt.Errorf("response contains no text content")}
	}
	return resp.Content[0].Text, nil
}
