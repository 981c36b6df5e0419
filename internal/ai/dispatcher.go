package ai

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"promptsmith_server/internal/ai/providers"
	"promptsmith_server/pkg/tracer"
)

// Preference selects which provider is tried first.
type Preference string

const (
	PreferenceAuto   Preference = "auto"
	PreferenceGemini Preference = "gemini"
	PreferenceOpenAI Preference = "openai"
)

// ParsePreference maps user input to a Preference; anything unknown is auto.
func ParsePreference(s string) Preference {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferenceGemini:
		return PreferenceGemini
	case PreferenceOpenAI:
		return PreferenceOpenAI
	default:
		return PreferenceAuto
	}
}

// ErrNoProviders is returned before any network call when no provider has a
// usable credential.
var ErrNoProviders = errors.New("no AI provider configured: set GEMINI_API_KEY (or API_KEY) or OPENAI_API_KEY")

// ProviderFailure is one provider's final error within a dispatch.
type ProviderFailure struct {
	Provider string
	Err      error
}

// ExhaustedError means every configured provider failed.
type ExhaustedError struct {
	Failures []ProviderFailure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Provider+": "+f.Err.Error())
	}
	return "all AI providers failed: " + strings.Join(parts, " | ")
}

func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Dispatcher hides which provider serves a request. providers are held in
// fixed priority order.
type Dispatcher struct {
	providers  []providers.Provider
	preference Preference
	logger     *zap.Logger
}

func NewDispatcher(logger *zap.Logger, preference Preference, ps ...providers.Provider) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		providers:  ps,
		preference: preference,
		logger:     logger.With(zap.String("component", "dispatcher")),
	}
}

func (d *Dispatcher) DefaultPreference() Preference { return d.preference }

// Configured returns the providers with a usable credential, in priority order.
func (d *Dispatcher) Configured() []providers.Provider {
	var out []providers.Provider
	for _, p := range d.providers {
		if p.Configured() {
			out = append(out, p)
		}
	}
	return out
}

// Candidates returns the providers to try for pref, in order. An empty pref
// uses the dispatcher default.
func (d *Dispatcher) Candidates(pref Preference) ([]providers.Provider, error) {
	if pref == "" {
		pref = d.preference
	}
	configured := d.Configured()
	if len(configured) == 0 {
		return nil, ErrNoProviders
	}
	if pref == PreferenceAuto {
		return configured, nil
	}

	ordered := make([]providers.Provider, 0, len(configured))
	for _, p := range configured {
		if strings.EqualFold(p.Name(), string(pref)) {
			ordered = append(ordered, p)
		}
	}
	for _, p := range configured {
		if !strings.EqualFold(p.Name(), string(pref)) {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Dispatch tries each candidate provider in turn and returns the first
// success. Providers are never tried in parallel.
func (d *Dispatcher) Dispatch(ctx context.Context, pref Preference, req *providers.Request) (*providers.Response, error) {
	candidates, err := d.Candidates(pref)
	if err != nil {
		d.logger.Error("dispatch rejected", zap.Error(err))
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "llm.dispatch", trace.WithAttributes(
		attribute.String("llm.preference", string(pref)),
		attribute.Int("llm.candidates", len(candidates)),
	))
	defer span.End()

	var failures []ProviderFailure
	for _, p := range candidates {
		d.logger.Debug("trying provider", zap.String("provider", p.Name()))
		resp, err := p.Attempt(ctx, req)
		if err == nil {
			span.SetAttributes(
				attribute.String("llm.provider", resp.Provider),
				attribute.String("llm.model", resp.Model),
			)
			return resp, nil
		}
		if ctx.Err() != nil {
			span.RecordError(ctx.Err())
			return nil, ctx.Err()
		}
		d.logger.Warn("provider failed", zap.String("provider", p.Name()), zap.Error(err))
		failures = append(failures, ProviderFailure{Provider: p.Name(), Err: err})
	}

	exhausted := &ExhaustedError{Failures: failures}
	span.RecordError(exhausted)
	span.SetStatus(codes.Error, "all providers failed")
	d.logger.Error("all providers failed", zap.Error(exhausted))
	return nil, exhausted
}
