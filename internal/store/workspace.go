package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptsmith_server/internal/types"
	apperrors "promptsmith_server/pkg/errors"
)

const (
	MinRating = 1
	MaxRating = 5
)

// HistoryFilter narrows a vault listing. Zero value matches everything.
type HistoryFilter struct {
	Query      string // case-insensitive substring of input or master prompt
	Category   string
	FrozenOnly bool
}

// Workspace is the per-user repository over a DocumentStore. Read-modify-write
// cycles are serialized by one mutex, which covers a single process only.
type Workspace struct {
	docs   DocumentStore
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewWorkspace(docs DocumentStore, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{
		docs:   docs,
		logger: logger.With(zap.String("component", "workspace")),
		now:    time.Now,
	}
}

func (w *Workspace) Backend() string { return w.docs.Name() }

// load reads a document, leaving dst untouched when it does not exist yet.
func (w *Workspace) load(ctx context.Context, userID, kind string, dst any) error {
	err := w.docs.Load(ctx, Key(userID, kind), dst)
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	w.logger.Error("failed to load document", zap.String("user_id", userID), zap.String("kind", kind), zap.Error(err))
	return apperrors.Wrap(err, apperrors.CodeStorageError, "failed to load "+kind)
}

func (w *Workspace) save(ctx context.Context, userID, kind string, v any) error {
	if err := w.docs.Save(ctx, Key(userID, kind), v); err != nil {
		w.logger.Error("failed to save document", zap.String("user_id", userID), zap.String("kind", kind), zap.Error(err))
		return apperrors.Wrap(err, apperrors.CodeStorageError, "failed to save "+kind)
	}
	return nil
}

func (w *Workspace) history(ctx context.Context, userID string) ([]types.GeneratedPrompt, error) {
	items := []types.GeneratedPrompt{}
	if err := w.load(ctx, userID, KindHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// History lists vault items newest first.
func (w *Workspace) History(ctx context.Context, userID string, f HistoryFilter) ([]types.GeneratedPrompt, error) {
	items, err := w.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]types.GeneratedPrompt, 0, len(items))
	for _, it := range items {
		if f.FrozenOnly && !it.IsFrozen {
			continue
		}
		if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.OriginalInput), q) &&
			!strings.Contains(strings.ToLower(it.MasterPrompt), q) {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// AddPrompt stores a new vault item, assigning its ID and timestamp.
func (w *Workspace) AddPrompt(ctx context.Context, userID string, item types.GeneratedPrompt) (types.GeneratedPrompt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.history(ctx, userID)
	if err != nil {
		return types.GeneratedPrompt{}, err
	}
	item.ID = uuid.New().String()
	item.Timestamp = w.now().UnixMilli()
	item.IsFrozen = false
	if item.Category == "" {
		item.Category = "General"
	}
	if item.Metadata.Optimizations == nil {
		item.Metadata.Optimizations = []string{}
	}

	items = append([]types.GeneratedPrompt{item}, items...)
	if err := w.save(ctx, userID, KindHistory, items); err != nil {
		return types.GeneratedPrompt{}, err
	}
	return item, nil
}

func (w *Workspace) GetPrompt(ctx context.Context, userID, id string) (types.GeneratedPrompt, error) {
	items, err := w.history(ctx, userID)
	if err != nil {
		return types.GeneratedPrompt{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return types.GeneratedPrompt{}, promptNotFound(id)
}

// ToggleFreeze flips the frozen flag of one vault item.
func (w *Workspace) ToggleFreeze(ctx context.Context, userID, id string) (types.GeneratedPrompt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.history(ctx, userID)
	if err != nil {
		return types.GeneratedPrompt{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].IsFrozen = !items[i].IsFrozen
		if err := w.save(ctx, userID, KindHistory, items); err != nil {
			return types.GeneratedPrompt{}, err
		}
		return items[i], nil
	}
	return types.GeneratedPrompt{}, promptNotFound(id)
}

// DeletePrompt removes one vault item. Frozen items must be unfrozen first.
func (w *Workspace) DeletePrompt(ctx context.Context, userID, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.history(ctx, userID)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID != id {
			continue
		}
		if it.IsFrozen {
			return apperrors.New(apperrors.CodeConflict, "prompt is frozen").WithDetail(id)
		}
		items = append(items[:i], items[i+1:]...)
		return w.save(ctx, userID, KindHistory, items)
	}
	return promptNotFound(id)
}

// ClearHistory removes every unfrozen item and reports how many went.
func (w *Workspace) ClearHistory(ctx context.Context, userID string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.history(ctx, userID)
	if err != nil {
		return 0, err
	}
	kept := make([]types.GeneratedPrompt, 0, len(items))
	for _, it := range items {
		if it.IsFrozen {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if len(kept) == 0 {
		if err := w.docs.Delete(ctx, Key(userID, KindHistory)); err != nil {
			w.logger.Error("failed to delete document", zap.String("user_id", userID), zap.String("kind", KindHistory), zap.Error(err))
			return 0, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to clear "+KindHistory)
		}
		return removed, nil
	}
	if err := w.save(ctx, userID, KindHistory, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func promptNotFound(id string) error {
	return apperrors.New(apperrors.CodeNotFound, "prompt not found").WithDetail(id)
}

// Templates lists the user's saved templates newest first.
func (w *Workspace) Templates(ctx context.Context, userID string) ([]types.UserTemplate, error) {
	items := []types.UserTemplate{}
	if err := w.load(ctx, userID, KindTemplates, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (w *Workspace) AddTemplate(ctx context.Context, userID string, tmpl types.UserTemplate) (types.UserTemplate, error) {
	tmpl.Title = strings.TrimSpace(tmpl.Title)
	tmpl.Intent = strings.TrimSpace(tmpl.Intent)
	if tmpl.Title == "" || tmpl.Intent == "" {
		return types.UserTemplate{}, apperrors.New(apperrors.CodeInvalidParam, "title and intent are required")
	}
	if tmpl.TargetTool == "" {
		tmpl.TargetTool = types.DefaultTool
	}
	if tmpl.Category == "" {
		tmpl.Category = "General"
	}
	if tmpl.Tone == "" {
		tmpl.Tone = "Professional"
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.Templates(ctx, userID)
	if err != nil {
		return types.UserTemplate{}, err
	}
	tmpl.ID = uuid.New().String()
	tmpl.Timestamp = w.now().UnixMilli()

	items = append([]types.UserTemplate{tmpl}, items...)
	if err := w.save(ctx, userID, KindTemplates, items); err != nil {
		return types.UserTemplate{}, err
	}
	return tmpl, nil
}

func (w *Workspace) DeleteTemplate(ctx context.Context, userID, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.Templates(ctx, userID)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == id {
			items = append(items[:i], items[i+1:]...)
			return w.save(ctx, userID, KindTemplates, items)
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "template not found").WithDetail(id)
}

// Ratings maps marketplace template IDs to the user's star rating.
func (w *Workspace) Ratings(ctx context.Context, userID string) (map[string]int, error) {
	ratings := map[string]int{}
	if err := w.load(ctx, userID, KindRatings, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Rate records a 1-5 star rating. Whether templateID exists is the caller's
// concern.
func (w *Workspace) Rate(ctx context.Context, userID, templateID string, rating int) (map[string]int, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "rating must be between 1 and 5")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ratings, err := w.Ratings(ctx, userID)
	if err != nil {
		return nil, err
	}
	ratings[templateID] = rating
	if err := w.save(ctx, userID, KindRatings, ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Settings returns the saved settings, or the defaults if none were saved.
func (w *Workspace) Settings(ctx context.Context, userID string) (types.UserSettings, error) {
	settings := types.DefaultUserSettings()
	if err := w.load(ctx, userID, KindSettings, &settings); err != nil {
		return types.UserSettings{}, err
	}
	if settings.TonePresets == nil {
		settings.TonePresets = []types.TonePreset{}
	}
	return settings, nil
}

// SaveSettings replaces the user's settings.
func (w *Workspace) SaveSettings(ctx context.Context, userID string, s types.UserSettings) (types.UserSettings, error) {
	s.PreferredProvider = strings.ToLower(strings.TrimSpace(s.PreferredProvider))
	switch s.PreferredProvider {
	case "", "auto", "gemini", "openai":
	default:
		return types.UserSettings{}, apperrors.New(apperrors.CodeInvalidParam, "preferredProvider must be auto, gemini or openai")
	}
	if s.Theme != "" && s.Theme != "light" && s.Theme != "dark" {
		return types.UserSettings{}, apperrors.New(apperrors.CodeInvalidParam, "theme must be light or dark")
	}
	if s.TonePresets == nil {
		s.TonePresets = []types.TonePreset{}
	}
	for i := range s.TonePresets {
		if s.TonePresets[i].ID == "" {
			s.TonePresets[i].ID = uuid.New().String()
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.save(ctx, userID, KindSettings, s); err != nil {
		return types.UserSettings{}, err
	}
	return s, nil
}

// Preferences exposes the generation-related settings to the AI layer.
func (w *Workspace) Preferences(ctx context.Context, userID string) (types.Preferences, error) {
	s, err := w.Settings(ctx, userID)
	if err != nil {
		return types.Preferences{}, err
	}
	return s.Preferences(), nil
}
