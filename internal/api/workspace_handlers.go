package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"promptsmith_server/internal/api/middleware"
	"promptsmith_server/internal/catalog"
	"promptsmith_server/internal/store"
	"promptsmith_server/internal/types"
	apperrors "promptsmith_server/pkg/errors"
)

type ClearHistoryResponse struct {
	Removed int `json:"removed"`
}

type CreateTemplateRequest struct {
	Title      string       `json:"title"`
	Intent     string       `json:"intent"`
	TargetTool types.AITool `json:"targetTool"`
	Category   string       `json:"category"`
	Tone       string       `json:"tone"`
}

// MarketplaceTemplate is a catalog template with the caller's own rating;
// zero means unrated.
type MarketplaceTemplate struct {
	catalog.Template
	UserRating int `json:"userRating"`
}

type RateRequest struct {
	Rating int `json:"rating"`
}

type RateResponse struct {
	TemplateID string `json:"templateId"`
	Rating     int    `json:"rating"`
}

type DeployRequest struct {
	Platform     string `json:"platform"`
	MasterPrompt string `json:"masterPrompt"`
}

// --- Vault ---

// GET /api/vault?q=&category=&frozen=true
func (h *APIHandler) ListVault(c *gin.Context) {
	frozenOnly, _ := strconv.ParseBool(c.Query("frozen"))
	items, err := h.workspace.History(c.Request.Context(), middleware.GetUserID(c), store.HistoryFilter{
		Query:      c.Query("q"),
		Category:   c.Query("category"),
		FrozenOnly: frozenOnly,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/vault/:id
func (h *APIHandler) GetVaultItem(c *gin.Context) {
	item, err := h.workspace.GetPrompt(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /api/vault/:id/freeze
func (h *APIHandler) ToggleFreeze(c *gin.Context) {
	item, err := h.workspace.ToggleFreeze(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/vault/:id
func (h *APIHandler) DeleteVaultItem(c *gin.Context) {
	if err := h.workspace.DeletePrompt(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/vault
func (h *APIHandler) ClearVault(c *gin.Context) {
	removed, err := h.workspace.ClearHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ClearHistoryResponse{Removed: removed})
}

// --- Templates ---

// GET /api/templates
func (h *APIHandler) ListTemplates(c *gin.Context) {
	items, err := h.workspace.Templates(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/templates
func (h *APIHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tmpl, err := h.workspace.AddTemplate(c.Request.Context(), middleware.GetUserID(c), types.UserTemplate{
		Title:      req.Title,
		Intent:     req.Intent,
		TargetTool: req.TargetTool,
		Category:   req.Category,
		Tone:       req.Tone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// DELETE /api/templates/:id
func (h *APIHandler) DeleteTemplate(c *gin.Context) {
	if err := h.workspace.DeleteTemplate(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Marketplace ---

// GET /api/marketplace?category=&tool=
func (h *APIHandler) ListMarketplace(c *gin.Context) {
	ratings, err := h.workspace.Ratings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	templates := catalog.Templates(c.Query("category"), c.Query("tool"))
	out := make([]MarketplaceTemplate, 0, len(templates))
	for _, t := range templates {
		out = append(out, MarketplaceTemplate{Template: t, UserRating: ratings[t.ID]})
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/marketplace/:id/rating
func (h *APIHandler) RateTemplate(c *gin.Context) {
	id := c.Param("id")
	if _, ok := catalog.FindTemplate(id); !ok {
		respondError(c, apperrors.New(apperrors.CodeNotFound, "template not found").WithDetail(id))
		return
	}
	var req RateRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.workspace.Rate(c.Request.Context(), middleware.GetUserID(c), id, req.Rating); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RateResponse{TemplateID: id, Rating: req.Rating})
}

// --- Settings ---

// GET /api/settings
func (h *APIHandler) GetSettings(c *gin.Context) {
	settings, err := h.workspace.Settings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/settings
// Fields missing from the body keep their default values.
func (h *APIHandler) UpdateSettings(c *gin.Context) {
	settings := types.DefaultUserSettings()
	if !bindJSON(c, &settings) {
		return
	}
	saved, err := h.workspace.SaveSettings(c.Request.Context(), middleware.GetUserID(c), settings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// --- Tools & deploy ---

// GET /api/tools?category=
func (h *APIHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Tools(c.Query("category")))
}

// CatalogResponse is the static option set the workspace renders its
// pickers from.
type CatalogResponse struct {
	Tools      []catalog.Tool `json:"tools"`
	Categories []string       `json:"categories"`
	PowerUps   []string       `json:"powerUps"`
}

// GET /api/catalog
func (h *APIHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Tools:      catalog.Tools(""),
		Categories: catalog.Categories,
		PowerUps:   catalog.PowerUps,
	})
}

// POST /api/deploy
func (h *APIHandler) Deploy(c *gin.Context) {
	var req DeployRequest
	if !bindJSON(c, &req) {
		return
	}
	dep, err := h.deployer.Deploy(req.Platform, req.MasterPrompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dep)
}
