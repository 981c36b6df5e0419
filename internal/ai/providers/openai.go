package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"promptsmith_server/internal/utils"
)

type OpenAIProvider struct {
	apiKey string
	models []string
	client *openai.Client
	logger *zap.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a chat-completions provider. baseURL overrides the
// public endpoint when set (proxies, compatible gateways, tests).
func NewOpenAIProvider(apiKey, baseURL string, models []string, logger *zap.Logger) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		models: append([]string(nil), models...),
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger.With(zap.String("component", "openai")),
	}
}

func (p *OpenAIProvider) Name() string { return NameOpenAI }

func (p *OpenAIProvider) Configured() bool { return !utils.IsPlaceholderKey(p.apiKey) }

func (p *OpenAIProvider) Models() []string { return append([]string(nil), p.models...) }

func (p *OpenAIProvider) Attempt(ctx context.Context, req *Request) (*Response, error) {
	messages := BuildOpenAIMessages(req)
	temperature, maxTokens := translateGeneration(req.Generation)

	return tryModels(ctx, p.logger, NameOpenAI, p.models, func(ctx context.Context, model string) (string, error) {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// translateGeneration maps Gemini generation parameters onto chat-completion ones.
func translateGeneration(g GenerationConfig) (float32, int) {
	return g.Temperature, int(g.MaxOutputTokens)
}

// BuildOpenAIMessages shapes a request as a system + user message pair. With
// an image the user message carries a text part and an image_url data URL.
func BuildOpenAIMessages(req *Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}

	if req.Image == nil || len(req.Image.Data) == 0 {
		return append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
	}

	mime := req.Image.MIMEType
	if mime == "" {
		mime = utils.DefaultImageMIME
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(req.Image.Data))
	return append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: openai.ImageURLDetailAuto,
			}},
		},
	})
}
