package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptsmith_server/internal/ai"
	"promptsmith_server/internal/api/middleware"
	"promptsmith_server/internal/deploy"
	"promptsmith_server/internal/store"
	"promptsmith_server/internal/types"
	apperrors "promptsmith_server/pkg/errors"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	aiGenerator *ai.Generator
	workspace   *store.Workspace
	deployer    *deploy.Deployer
	logger      *zap.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(aiGen *ai.Generator, workspace *store.Workspace, deployer *deploy.Deployer, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		aiGenerator: aiGen,
		workspace:   workspace,
		deployer:    deployer,
		logger:      logger.With(zap.String("component", "api")),
	}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	Intent      string             `json:"intent"`
	TargetTool  string             `json:"targetTool"`
	Category    string             `json:"category"`
	PowerUps    []string           `json:"powerUps"`
	SourceImage string             `json:"sourceImage"` // data URL
	Provider    string             `json:"provider"`
	Preferences *types.Preferences `json:"preferences"`
}

type RefineRequest struct {
	Intent string `json:"intent"`
}

type RefineResponse struct {
	Refined string `json:"refined"`
}

type ProviderStatus struct {
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

type StatusResponse struct {
	Ready             bool             `json:"ready"`
	Providers         []ProviderStatus `json:"providers"`
	DefaultPreference string           `json:"defaultPreference"`
	Store             string           `json:"store"`
}

// --- API Handlers ---

// POST /api/prompts/generate
func (h *APIHandler) GeneratePrompt(c *gin.Context) {
	var req GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := middleware.GetUserID(c)

	genReq := ai.GenerationRequest{
		UserID:      userID,
		Intent:      req.Intent,
		TargetTool:  req.TargetTool,
		SourceImage: req.SourceImage,
		Provider:    req.Provider,
		PowerUps:    req.PowerUps,
	}
	if req.Preferences != nil {
		genReq.Preferences = *req.Preferences
	}

	gen, err := h.aiGenerator.GeneratePrompt(c.Request.Context(), genReq)
	if err != nil {
		h.logger.Warn("prompt generation failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	category := strings.TrimSpace(req.Category)
	if req.SourceImage != "" {
		category = "Image"
	}
	item, err := h.workspace.AddPrompt(c.Request.Context(), userID, types.GeneratedPrompt{
		OriginalInput: req.Intent,
		MasterPrompt:  gen.Result.MasterPrompt,
		Settings:      gen.Result.Settings,
		Metadata:      gen.Result.Metadata,
		UsageTip:      gen.Result.UsageTip,
		Category:      category,
		Provider:      gen.Provider,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("prompt saved to vault",
		zap.String("user_id", userID),
		zap.String("prompt_id", item.ID),
		zap.String("provider", gen.Provider),
		zap.String("model", gen.Model))
	c.JSON(http.StatusCreated, item)
}

// POST /api/prompts/refine
// Refinement is best effort, so this always answers 200.
func (h *APIHandler) RefineInput(c *gin.Context) {
	var req RefineRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, RefineResponse{Refined: h.aiGenerator.RefineInput(c.Request.Context(), req.Intent)})
}

// GET /status
func (h *APIHandler) Status(c *gin.Context) {
	dispatcher := h.aiGenerator.Dispatcher()
	configured := dispatcher.Configured()

	resp := StatusResponse{
		Ready:             len(configured) > 0,
		Providers:         make([]ProviderStatus, 0, len(configured)),
		DefaultPreference: string(dispatcher.DefaultPreference()),
		Store:             h.workspace.Backend(),
	}
	for _, p := range configured {
		resp.Providers = append(resp.Providers, ProviderStatus{Name: p.Name(), Models: p.Models()})
	}
	c.JSON(http.StatusOK, resp)
}

// bindJSON decodes the body, answering 400 itself when it cannot.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid request body").WithDetail(err.Error()))
		return false
	}
	return true
}

// respondError translates AI-layer and storage errors into the AppError body.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	var exhausted *ai.ExhaustedError
	switch {
	case errors.Is(err, ai.ErrNoProviders):
		appErr = apperrors.Wrap(err, apperrors.CodeProviderNotConfigured, err.Error())
	case errors.As(err, &exhausted):
		appErr = apperrors.Wrap(err, apperrors.CodeGenerationFailed, exhausted.Error())
	default:
		appErr = apperrors.AsAppError(err)
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, appErr)
}
