package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"promptsmith_server/internal/utils"
)

// GeminiPayload is a request already shaped for the Gemini content API.
type GeminiPayload struct {
	SystemInstruction string
	Parts             []genai.Part
	Temperature       float32
	MaxOutputTokens   int32
}

// GeminiClient performs one generateContent call against one model.
type GeminiClient interface {
	GenerateContent(ctx context.Context, model string, payload *GeminiPayload) (string, error)
}

type GeminiProvider struct {
	apiKey string
	models []string
	client GeminiClient
	logger *zap.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider builds a provider backed by the generative-ai-go SDK.
func NewGeminiProvider(apiKey string, models []string, logger *zap.Logger) *GeminiProvider {
	return NewGeminiProviderWithClient(apiKey, models, &sdkGeminiClient{apiKey: apiKey}, logger)
}

func NewGeminiProviderWithClient(apiKey string, models []string, client GeminiClient, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		apiKey: apiKey,
		models: append([]string(nil), models...),
		client: client,
		logger: logger.With(zap.String("component", "gemini")),
	}
}

func (p *GeminiProvider) Name() string { return NameGemini }

func (p *GeminiProvider) Configured() bool {
	return p.client != nil && !utils.IsPlaceholderKey(p.apiKey)
}

func (p *GeminiProvider) Models() []string { return append([]string(nil), p.models...) }

func (p *GeminiProvider) Attempt(ctx context.Context, req *Request) (*Response, error) {
	payload := BuildGeminiPayload(req)
	return tryModels(ctx, p.logger, NameGemini, p.models, func(ctx context.Context, model string) (string, error) {
		return p.client.GenerateContent(ctx, model, payload)
	})
}

// Close releases the underlying SDK client, if one was created.
func (p *GeminiProvider) Close() error {
	if c, ok := p.client.(*sdkGeminiClient); ok {
		return c.Close()
	}
	return nil
}

// BuildGeminiPayload shapes a request as Gemini content parts; an image goes
// inline ahead of the text.
func BuildGeminiPayload(req *Request) *GeminiPayload {
	var parts []genai.Part
	if req.Image != nil && len(req.Image.Data) > 0 {
		mime := req.Image.MIMEType
		if mime == "" {
			mime = utils.DefaultImageMIME
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: req.Image.Data})
	}
	parts = append(parts, genai.Text(req.Prompt))

	return &GeminiPayload{
		SystemInstruction: req.SystemInstruction,
		Parts:             parts,
		Temperature:       req.Generation.Temperature,
		MaxOutputTokens:   req.Generation.MaxOutputTokens,
	}
}

// sdkGeminiClient lazily creates one genai.Client and reuses it.
type sdkGeminiClient struct {
	apiKey string
	opts   []option.ClientOption

	mu     sync.Mutex
	client *genai.Client
}

func (c *sdkGeminiClient) get(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	client, err := genai.NewClient(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

func (c *sdkGeminiClient) GenerateContent(ctx context.Context, model string, payload *GeminiPayload) (string, error) {
	client, err := c.get(ctx)
	if err != nil {
		return "", err
	}

	gm := client.GenerativeModel(model)
	if payload.SystemInstruction != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(payload.SystemInstruction)}}
	}
	if payload.Temperature > 0 {
		gm.SetTemperature(payload.Temperature)
	}
	if payload.MaxOutputTokens > 0 {
		gm.SetMaxOutputTokens(payload.MaxOutputTokens)
	}

	resp, err := gm.GenerateContent(ctx, payload.Parts...)
	if err != nil {
		return "", err
	}
	return candidateText(resp), nil
}

func (c *sdkGeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
