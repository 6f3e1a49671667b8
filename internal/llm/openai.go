package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"salespilot/internal/logging"
)

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient builds a client with a generous timeout for model calls.
// baseURL is optional and supports OpenAI-compatible endpoints.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete executes one chat completion round.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: convertMessages(req.Messages),
	}

	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	logging.Debug("model %s completed in %v (input=%d output=%d tokens)",
		req.Model, time.Since(start),
		completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	return convertChoice(completion.Choices[0]), nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))

		case RoleUser:
			out = append(out, openai.UserMessage(msg.Content))

		case RoleAssistant:
			am := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				am.Content.OfArrayOfContentParts = append(am.Content.OfArrayOfContentParts,
					openai.ChatCompletionAssistantMessageParamContentArrayOfContentPartUnion{
						OfText: &openai.ChatCompletionContentPartTextParam{Text: msg.Content},
					})
			}
			for _, tc := range msg.ToolCalls {
				am.ToolCalls = append(am.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: anyToJSONString(tc.Arguments),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &am})

		case RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		}
	}

	return out
}

func convertTools(tools []ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, tool := range tools {
		if tool.Name == "" {
			continue
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(tool.InputSchema),
				Strict:      openai.Bool(false),
			},
		})
	}
	return out
}

func convertChoice(choice openai.ChatCompletionChoice) *Response {
	resp := &Response{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: jsonStringToMap(tc.Function.Arguments),
		})
	}
	return resp
}

func anyToJSONString(data any) string {
	bytes, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(bytes)
}

// jsonStringToMap tolerates malformed arguments; the tool dispatch layer
// reports missing keys instead of the loop crashing on bad model output.
func jsonStringToMap(jsonStr string) map[string]any {
	var result map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return make(map[string]any)
	}
	return result
}
