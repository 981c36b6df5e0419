package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptsmith_server/internal/types"
	apperrors "promptsmith_server/pkg/errors"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w := NewWorkspace(NewMemoryStore(), zap.NewNop())
	clock := time.UnixMilli(1_700_000_000_000)
	w.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return w
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestWorkspace_HistoryNewestFirstAndFilters(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	first, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "logo for a bakery", MasterPrompt: "Design a logo", Category: "Logo"})
	require.NoError(t, err)
	second, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "sales email", MasterPrompt: "Write a cold email"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Greater(t, second.Timestamp, first.Timestamp)
	assert.Equal(t, "General", second.Category)
	assert.NotNil(t, second.Metadata.Optimizations)

	all, err := w.History(ctx, "u1", HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	byQuery, err := w.History(ctx, "u1", HistoryFilter{Query: "COLD EMAIL"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, second.ID, byQuery[0].ID)

	byCategory, err := w.History(ctx, "u1", HistoryFilter{Category: "logo"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, first.ID, byCategory[0].ID)

	other, err := w.History(ctx, "u2", HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWorkspace_FreezeProtectsFromDeletion(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	keep, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "keep"})
	require.NoError(t, err)
	drop, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "drop"})
	require.NoError(t, err)

	frozen, err := w.ToggleFreeze(ctx, "u1", keep.ID)
	require.NoError(t, err)
	assert.True(t, frozen.IsFrozen)

	assert.Equal(t, apperrors.CodeConflict, appCode(t, w.DeletePrompt(ctx, "u1", keep.ID)))

	onlyFrozen, err := w.History(ctx, "u1", HistoryFilter{FrozenOnly: true})
	require.NoError(t, err)
	require.Len(t, onlyFrozen, 1)
	assert.Equal(t, keep.ID, onlyFrozen[0].ID)

	removed, err := w.ClearHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = w.GetPrompt(ctx, "u1", drop.ID)
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))

	thawed, err := w.ToggleFreeze(ctx, "u1", keep.ID)
	require.NoError(t, err)
	assert.False(t, thawed.IsFrozen)
	require.NoError(t, w.DeletePrompt(ctx, "u1", keep.ID))

	remaining, err := w.History(ctx, "u1", HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestWorkspace_MissingPrompt(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	_, err := w.ToggleFreeze(ctx, "u1", "nope")
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, w.DeletePrompt(ctx, "u1", "nope")))

	removed, err := w.ClearHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestWorkspace_ClearHistoryDropsEmptyDocument(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	_, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "a", MasterPrompt: "A"})
	require.NoError(t, err)
	_, err = w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "b", MasterPrompt: "B"})
	require.NoError(t, err)

	removed, err := w.ClearHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	var raw []types.GeneratedPrompt
	assert.ErrorIs(t, w.docs.Load(ctx, Key("u1", KindHistory), &raw), ErrNotFound)

	items, err := w.History(ctx, "u1", HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWorkspace_Templates(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	_, err := w.AddTemplate(ctx, "u1", types.UserTemplate{Title: " ", Intent: "x"})
	assert.Equal(t, apperrors.CodeInvalidParam, appCode(t, err))

	tmpl, err := w.AddTemplate(ctx, "u1", types.UserTemplate{Title: "Cold email", Intent: "Write a cold email"})
	require.NoError(t, err)
	assert.Equal(t, "Professional", tmpl.Tone)
	assert.Equal(t, types.DefaultTool, tmpl.TargetTool)
	assert.NotEmpty(t, tmpl.ID)

	list, err := w.Templates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, w.DeleteTemplate(ctx, "u1", tmpl.ID))
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, w.DeleteTemplate(ctx, "u1", tmpl.ID)))
}

func TestWorkspace_Ratings(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	for _, bad := range []int{0, 6, -1} {
		_, err := w.Rate(ctx, "u1", "tmpl-1", bad)
		assert.Equal(t, apperrors.CodeInvalidParam, appCode(t, err))
	}

	_, err := w.Rate(ctx, "u1", "tmpl-1", 4)
	require.NoError(t, err)
	ratings, err := w.Rate(ctx, "u1", "tmpl-1", 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"tmpl-1": 5}, ratings)

	empty, err := w.Ratings(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWorkspace_SettingsAndPreferences(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t)

	defaults, err := w.Settings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultUserSettings(), defaults)

	s := defaults
	s.DefaultTone = "Witty"
	s.PreferredProvider = " OpenAI "
	s.CustomSystemInstruction = "Use metric units."
	s.TonePresets = []types.TonePreset{{Name: "Pirate"}}
	saved, err := w.SaveSettings(ctx, "u1", s)
	require.NoError(t, err)
	assert.Equal(t, "openai", saved.PreferredProvider)
	assert.NotEmpty(t, saved.TonePresets[0].ID)

	loaded, err := w.Settings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	prefs, err := w.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, types.Preferences{
		Tone:                    "Witty",
		Style:                   "Modern",
		Length:                  "Optimized",
		Model:                   "Auto",
		Provider:                "openai",
		CustomSystemInstruction: "Use metric units.",
	}, prefs)

	s.PreferredProvider = "claude"
	_, err = w.SaveSettings(ctx, "u1", s)
	assert.Equal(t, apperrors.CodeInvalidParam, appCode(t, err))

	s.PreferredProvider = ""
	s.Theme = "sepia"
	_, err = w.SaveSettings(ctx, "u1", s)
	assert.Equal(t, apperrors.CodeInvalidParam, appCode(t, err))
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Load(context.Context, string, any) error { return errors.New("connection refused") }

func TestWorkspace_StorageErrors(t *testing.T) {
	w := NewWorkspace(&failingStore{}, zap.NewNop())

	_, err := w.History(context.Background(), "u1", HistoryFilter{})
	assert.Equal(t, apperrors.CodeStorageError, appCode(t, err))

	_, err = w.Preferences(context.Background(), "u1")
	assert.Error(t, err)
}

func TestWorkspace_RedisBackend(t *testing.T) {
	_, rs := setupTestRedis(t)
	w := NewWorkspace(rs, zap.NewNop())
	ctx := context.Background()

	item, err := w.AddPrompt(ctx, "u1", types.GeneratedPrompt{OriginalInput: "x", MasterPrompt: "y"})
	require.NoError(t, err)

	got, err := w.GetPrompt(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
	assert.Equal(t, "redis", w.Backend())
}
