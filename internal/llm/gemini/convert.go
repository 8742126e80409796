package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// ConvertMessages maps eino messages to genai contents. The first system
// message becomes the system instruction; tool results are sent back as
// function responses. Exported for testing.
func ConvertMessages(msgs []*schema.Message) (system string, contents []*genai.Content, err error) {
	for _, msg := range msgs {
		switch msg.Role {
		case schema.System:
			if system == "" {
				system = msg.Content
			}
		case schema.User:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case schema.Assistant:
			parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				var args map[string]any
				if tc.Function.Arguments != "" {
					if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
						return "", nil, fmt.Errorf("tool call %s arguments: %w", tc.Function.Name, err)
					}
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Function.Name,
						Args: args,
					},
				})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		case schema.Tool:
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     msg.ToolName,
						Response: map[string]any{"output": msg.Content},
					},
				}},
			})
		default:
			return "", nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return system, contents, nil
}

// convertFunctionCall maps a genai function call part to an eino tool call.
func convertFunctionCall(fc *genai.FunctionCall) schema.ToolCall {
	args := "{}"
	if len(fc.Args) > 0 {
		if raw, err := json.Marshal(fc.Args); err == nil {
			args = string(raw)
		}
	}
	return schema.ToolCall{
		ID:   fc.ID,
		Type: "function",
		Function: schema.FunctionCall{
			Name:      fc.Name,
			Arguments: args,
		},
	}
}

// ConvertTools maps eino tool declarations to genai function declarations.
// Parameter schemas go through the OpenAPI v3 form eino already emits and are
// attached as raw JSON schema. Exported for testing.
func ConvertTools(tools []*schema.ToolInfo) ([]*genai.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Desc,
		}
		if t.ParamsOneOf != nil {
			openAPI, err := t.ParamsOneOf.ToOpenAPIV3()
			if err != nil {
				return nil, fmt.Errorf("tool %s parameters: %w", t.Name, err)
			}
			if openAPI != nil {
				raw, err := json.Marshal(openAPI)
				if err != nil {
					return nil, fmt.Errorf("tool %s parameters: %w", t.Name, err)
				}
				var jsonSchema map[string]any
				if err := json.Unmarshal(raw, &jsonSchema); err != nil {
					return nil, fmt.Errorf("tool %s parameters: %w", t.Name, err)
				}
				decl.ParametersJsonSchema = jsonSchema
			}
		}
		decls = append(decls, decl)
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}, nil
}
