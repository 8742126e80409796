// Package gemini adapts the Google Gemini API (google.golang.org/genai) to
// the eino chat-model contract, so engines can run on either Ark or Gemini
// without caring which provider is configured.
package gemini

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Interface compliance check.
var _ model.ChatModel = (*ChatModel)(nil)

// Config carries the Gemini connection settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// ChatModel implements eino's model.ChatModel over the Gemini API.
type ChatModel struct {
	client      *genai.Client
	model       string
	temperature *float32
	maxTokens   *int
	tools       []*genai.Tool
}

// NewChatModel connects to the Gemini API with the given configuration.
func NewChatModel(ctx context.Context, cfg *Config) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: missing API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}

	return &ChatModel{
		client:      client,
		model:       name,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// BindTools declares the capability set the model may invoke.
func (c *ChatModel) BindTools(tools []*schema.ToolInfo) error {
	converted, err := ConvertTools(tools)
	if err != nil {
		return fmt.Errorf("gemini: convert tools: %w", err)
	}
	c.tools = converted
	return nil
}

// Generate runs a single non-streaming completion.
func (c *ChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	name, config, contents, err := c.prepare(in, opts...)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, name, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}

	msg := convertResponse(resp)
	if msg == nil {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return msg, nil
}

// Stream runs a streaming completion. The returned reader is single-pass and
// non-restartable; each call is one billed model invocation.
func (c *ChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	name, config, contents, err := c.prepare(in, opts...)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](8)
	go func() {
		defer sw.Close()
		for resp, err := range c.client.Models.GenerateContentStream(ctx, name, contents, config) {
			if err != nil {
				sw.Send(nil, fmt.Errorf("gemini: stream: %w", err))
				return
			}
			msg := convertResponse(resp)
			if msg == nil {
				continue
			}
			if closed := sw.Send(msg, nil); closed {
				return
			}
		}
	}()

	return sr, nil
}

func (c *ChatModel) prepare(in []*schema.Message, opts ...model.Option) (string, *genai.GenerateContentConfig, []*genai.Content, error) {
	options := model.GetCommonOptions(&model.Options{
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Model:       &c.model,
	}, opts...)

	system, contents, err := ConvertMessages(in)
	if err != nil {
		return "", nil, nil, fmt.Errorf("gemini: convert messages: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: options.Temperature,
		Tools:       c.tools,
	}
	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	return *options.Model, config, contents, nil
}

// convertResponse maps one API response (or stream chunk) to an assistant
// message chunk. Returns nil when the chunk carries nothing usable.
func convertResponse(resp *genai.GenerateContentResponse) *schema.Message {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}

	cand := resp.Candidates[0]
	msg := &schema.Message{Role: schema.Assistant}

	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.Text != "" && !part.Thought {
				msg.Content += part.Text
			}
			if part.FunctionCall != nil {
				msg.ToolCalls = append(msg.ToolCalls, convertFunctionCall(part.FunctionCall))
			}
		}
	}

	if cand.FinishReason != "" {
		msg.ResponseMeta = &schema.ResponseMeta{FinishReason: string(cand.FinishReason)}
	}
	if resp.UsageMetadata != nil {
		if msg.ResponseMeta == nil {
			msg.ResponseMeta = &schema.ResponseMeta{}
		}
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if msg.Content == "" && len(msg.ToolCalls) == 0 && msg.ResponseMeta == nil {
		return nil
	}
	return msg
}
