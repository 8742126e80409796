package gemini_test

import (
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/roadbite/roadbite/internal/capability"
	"github.com/roadbite/roadbite/internal/llm/gemini"
)

func TestConvertMessagesSplitsSystemInstruction(t *testing.T) {
	system, contents, err := gemini.ConvertMessages([]*schema.Message{
		schema.SystemMessage("You are Jake."),
		schema.UserMessage("one burger please"),
		schema.AssistantMessage("Coming right up!", nil),
	})
	if err != nil {
		t.Fatalf("ConvertMessages err: %v", err)
	}
	if system != "You are Jake." {
		t.Fatalf("unexpected system instruction: %q", system)
	}
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles: %s, %s", contents[0].Role, contents[1].Role)
	}
}

func TestConvertMessagesMapsToolExchange(t *testing.T) {
	toolCalls := []schema.ToolCall{{
		ID:       "call-1",
		Type:     "function",
		Function: schema.FunctionCall{Name: "get_menu", Arguments: `{"restaurant":"burger"}`},
	}}

	_, contents, err := gemini.ConvertMessages([]*schema.Message{
		schema.UserMessage("what's on the menu?"),
		schema.AssistantMessage("", toolCalls),
		schema.ToolMessage(`{"items":[]}`, "call-1", schema.WithToolName("get_menu")),
	})
	if err != nil {
		t.Fatalf("ConvertMessages err: %v", err)
	}
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	callPart := contents[1].Parts[0]
	if callPart.FunctionCall == nil || callPart.FunctionCall.Name != "get_menu" {
		t.Fatalf("missing function call part: %+v", callPart)
	}
	if callPart.FunctionCall.Args["restaurant"] != "burger" {
		t.Fatalf("arguments lost in conversion: %+v", callPart.FunctionCall.Args)
	}

	respPart := contents[2].Parts[0]
	if respPart.FunctionResponse == nil || respPart.FunctionResponse.Name != "get_menu" {
		t.Fatalf("missing function response part: %+v", respPart)
	}
}

func TestConvertToolsCarriesParameterSchema(t *testing.T) {
	infos, err := capability.ToolInfos([]string{capability.PlaceOrder, capability.CompleteOrder})
	if err != nil {
		t.Fatalf("ToolInfos err: %v", err)
	}

	tools, err := gemini.ConvertTools(infos)
	if err != nil {
		t.Fatalf("ConvertTools err: %v", err)
	}
	if len(tools) != 1 || len(tools[0].FunctionDeclarations) != 2 {
		t.Fatalf("unexpected tool shape: %+v", tools)
	}

	placeOrder := tools[0].FunctionDeclarations[0]
	if placeOrder.Name != capability.PlaceOrder {
		t.Fatalf("unexpected declaration name: %s", placeOrder.Name)
	}
	params, ok := placeOrder.ParametersJsonSchema.(map[string]any)
	if !ok || params["properties"] == nil {
		t.Fatalf("place_order should declare parameters, got %+v", placeOrder.ParametersJsonSchema)
	}

	completeOrder := tools[0].FunctionDeclarations[1]
	if completeOrder.ParametersJsonSchema != nil {
		t.Fatalf("complete_order takes no parameters, got %+v", completeOrder.ParametersJsonSchema)
	}
}

func TestConvertToolsEmpty(t *testing.T) {
	tools, err := gemini.ConvertTools(nil)
	if err != nil {
		t.Fatalf("ConvertTools err: %v", err)
	}
	if tools != nil {
		t.Fatalf("expected nil for empty input, got %+v", tools)
	}
}
