// Package providers adapts each LLM vendor API to one Provider capability and
// implements the per-model fallback every adapter shares.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"promptsmith_server/internal/utils"
	"promptsmith_server/pkg/metrics"
	"promptsmith_server/pkg/tracer"
)

const (
	NameGemini = "Gemini"
	NameOpenAI = "OpenAI"
)

// Provider is one LLM vendor. Attempt walks the vendor's candidate models in
// order and returns the first successful reply.
type Provider interface {
	Name() string
	Configured() bool
	Models() []string
	Attempt(ctx context.Context, req *Request) (*Response, error)
}

type InlineImage struct {
	MIMEType string
	Data     []byte
}

// GenerationConfig uses Gemini's parameter names; adapters for other vendors
// translate them. Zero values mean "vendor default".
type GenerationConfig struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Request is the vendor-neutral form of one model call.
type Request struct {
	SystemInstruction string
	Prompt            string
	Image             *InlineImage
	Generation        GenerationConfig
}

type Response struct {
	Text     string
	Model    string
	Provider string
}

var errEmptyResponse = errors.New("model returned an empty response")

// ModelError is the failure of a single candidate model.
type ModelError struct {
	Provider string
	Model    string
	NotFound bool
	Err      error
}

func (e *ModelError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("model %s not available: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ProviderError means every candidate model of a provider failed. Err is the
// last recorded failure.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return "no candidate models attempted"
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

type modelCall func(ctx context.Context, model string) (string, error)

// tryModels runs call for each model until one succeeds. Attempts are
// sequential; a cancelled context ends the loop with the context error.
func tryModels(ctx context.Context, logger *zap.Logger, provider string, models []string, call modelCall) (*Response, error) {
	if len(models) == 0 {
		return nil, &ProviderError{Provider: provider, Err: errors.New("no candidate models configured")}
	}

	var last error
	for i, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx, span := tracer.Start(ctx, "llm.attempt", trace.WithAttributes(
			attribute.String("llm.provider", provider),
			attribute.String("llm.model", model),
			attribute.Int("llm.attempt", i+1),
		))
		start := time.Now()
		text, err := call(attemptCtx, model)
		elapsed := time.Since(start)
		metrics.LLMCallDuration.WithLabelValues(provider, model).Observe(elapsed.Seconds())

		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyResponse
		}
		if err == nil {
			metrics.LLMCallTotal.WithLabelValues(provider, model, "ok").Inc()
			span.End()
			logger.Info("model attempt succeeded",
				zap.String("provider", provider),
				zap.String("model", model),
				zap.Duration("duration", elapsed))
			return &Response{Text: text, Model: model, Provider: provider}, nil
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		notFound := utils.IsModelNotFound(err)
		last = &ModelError{Provider: provider, Model: model, NotFound: notFound, Err: err}
		if notFound {
			metrics.LLMCallTotal.WithLabelValues(provider, model, "not_found").Inc()
			logger.Warn("model not available, trying next candidate",
				zap.String("provider", provider),
				zap.String("model", model))
		} else {
			metrics.LLMCallTotal.WithLabelValues(provider, model, "error").Inc()
			logger.Warn("model attempt failed, trying next candidate",
				zap.String("provider", provider),
				zap.String("model", model),
				zap.Int("status", utils.HTTPStatus(err)),
				zap.Error(err))
		}
	}

	logger.Error("all candidate models failed", zap.String("provider", provider), zap.Error(last))
	return nil, &ProviderError{Provider: provider, Err: last}
}
