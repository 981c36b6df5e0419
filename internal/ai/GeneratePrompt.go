package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"promptsmith_server/internal/ai/prompts"
	"promptsmith_server/internal/ai/providers"
	aiutils "promptsmith_server/internal/ai/utils"
	"promptsmith_server/internal/types"
	"promptsmith_server/internal/utils"
	apperrors "promptsmith_server/pkg/errors"
	"promptsmith_server/pkg/metrics"
)

const generateTemperature = 0.8

// GeneratePrompt engineers a master prompt for req.TargetTool. Dispatcher
// errors are returned unchanged so callers can tell a missing credential from
// a failed generation.
func (g *Generator) GeneratePrompt(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	intent := strings.TrimSpace(req.Intent)
	if intent == "" && strings.TrimSpace(req.SourceImage) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "intent or source image is required")
	}

	targetTool := strings.TrimSpace(req.TargetTool)
	if targetTool == "" {
		targetTool = string(types.DefaultTool)
	}

	prefs := aiutils.MergePreferences(g.storedPreferences(ctx, req.UserID), req.Preferences)
	finalIntent := intent + prompts.GetPowerUpSuffix(aiutils.NormalizePowerUps(req.PowerUps))

	call := &providers.Request{
		SystemInstruction: BuildSystemInstruction(targetTool, prefs),
		Prompt:            finalIntent,
		Generation:        providers.GenerationConfig{Temperature: generateTemperature},
	}
	if req.SourceImage != "" {
		mime, data, err := utils.ParseDataURL(req.SourceImage)
		if err != nil {
			metrics.PromptGenerationTotal.WithLabelValues("generate", "invalid").Inc()
			return nil, apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid source image")
		}
		call.Image = &providers.InlineImage{MIMEType: mime, Data: data}
		call.Prompt = prompts.GetImageAnalysisPrompt(finalIntent, targetTool)
	}

	// empty means the dispatcher default
	var preference Preference
	switch {
	case strings.TrimSpace(req.Provider) != "":
		preference = ParsePreference(req.Provider)
	case strings.TrimSpace(prefs.Provider) != "":
		preference = ParsePreference(prefs.Provider)
	}

	g.logger.Info("generating prompt",
		zap.String("user_id", req.UserID),
		zap.String("target_tool", targetTool),
		zap.Bool("has_image", call.Image != nil),
		zap.Int("power_ups", len(req.PowerUps)))

	resp, err := g.dispatcher.Dispatch(ctx, preference, call)
	if err != nil {
		metrics.PromptGenerationTotal.WithLabelValues("generate", "failed").Inc()
		return nil, err
	}

	result := ParseResponse(resp.Text, targetTool, resp.Model)
	metrics.PromptGenerationTotal.WithLabelValues("generate", "ok").Inc()
	g.logger.Info("prompt generated",
		zap.String("provider", resp.Provider),
		zap.String("model", resp.Model),
		zap.Int("health_score", result.Metadata.HealthScore))

	return &GenerationResult{Result: result, Provider: resp.Provider, Model: resp.Model}, nil
}

// BuildSystemInstruction assembles the system context: the custom block when
// present, the base instruction with its metadata addendum, the target tool
// block, then the preferences block when any preference is set.
func BuildSystemInstruction(targetTool string, prefs types.Preferences) string {
	blocks := make([]string, 0, 5)
	if strings.TrimSpace(prefs.CustomSystemInstruction) != "" {
		blocks = append(blocks, prompts.GetCustomContextBlock(prefs.CustomSystemInstruction))
	}
	blocks = append(blocks,
		prompts.GetSystemInstruction(),
		prompts.GetMetadataAddendum(),
		prompts.GetTargetToolBlock(targetTool),
	)
	if prefs.Tone != "" || prefs.Style != "" || prefs.Length != "" || prefs.Model != "" {
		blocks = append(blocks, prompts.GetPreferencesBlock(prefs.Tone, prefs.Style, prefs.Length, prefs.Model))
	}
	return strings.Join(blocks, "\n\n")
}
