package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"promptsmith_server/internal/ai/prompts"
	"promptsmith_server/internal/ai/providers"
	aiutils "promptsmith_server/internal/ai/utils"
	"promptsmith_server/pkg/metrics"
)

const (
	refineTemperature     = 0.5
	refineMaxOutputTokens = 100
)

// RefineInput returns a clarified restatement of intent. It is best effort:
// any failure, or a blank reply, yields intent unchanged.
func (g *Generator) RefineInput(ctx context.Context, intent string) string {
	if strings.TrimSpace(intent) == "" {
		return intent
	}

	resp, err := g.dispatcher.Dispatch(ctx, "", &providers.Request{
		Prompt: prompts.GetRefinePrompt(intent),
		Generation: providers.GenerationConfig{
			Temperature:     refineTemperature,
			MaxOutputTokens: refineMaxOutputTokens,
		},
	})
	if err != nil {
		metrics.PromptGenerationTotal.WithLabelValues("refine", "fallback").Inc()
		g.logger.Warn("refinement failed, keeping original input", zap.Error(err))
		return intent
	}

	refined := aiutils.CleanReply(resp.Text)
	if refined == "" {
		metrics.PromptGenerationTotal.WithLabelValues("refine", "fallback").Inc()
		return intent
	}
	metrics.PromptGenerationTotal.WithLabelValues("refine", "ok").Inc()
	return refined
}
