package ai

import (
	"context"

	"go.uber.org/zap"

	"promptsmith_server/internal/types"
)

// PreferencesProvider supplies a user's stored generation defaults.
type PreferencesProvider interface {
	Preferences(ctx context.Context, userID string) (types.Preferences, error)
}

// GenerationRequest is one generate action from the workspace.
type GenerationRequest struct {
	UserID     string
	Intent     string
	TargetTool string
	// Preferences override the stored ones field by field.
	Preferences types.Preferences
	// SourceImage is a data URL; empty for a text-only request.
	SourceImage string
	// Provider overrides the preferred provider: auto, gemini or openai.
	Provider string
	PowerUps []string
}

type GenerationResult struct {
	Result   types.ParsedPromptResult
	Provider string
	Model    string
}

type Generator struct {
	dispatcher  *Dispatcher
	preferences PreferencesProvider
	logger      *zap.Logger
}

// NewGenerator wires the entry points to a dispatcher. prefs may be nil, in
// which case only request-level preferences apply.
func NewGenerator(dispatcher *Dispatcher, prefs PreferencesProvider, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		dispatcher:  dispatcher,
		preferences: prefs,
		logger:      logger.With(zap.String("component", "generator")),
	}
}

func (g *Generator) Dispatcher() *Dispatcher { return g.dispatcher }

func (g *Generator) storedPreferences(ctx context.Context, userID string) types.Preferences {
	if g.preferences == nil || userID == "" {
		return types.Preferences{}
	}
	prefs, err := g.preferences.Preferences(ctx, userID)
	if err != nil {
		g.logger.Warn("failed to load user preferences, continuing without them",
			zap.String("user_id", userID), zap.Error(err))
		return types.Preferences{}
	}
	return prefs
}
