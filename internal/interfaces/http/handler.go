package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/panelprofits/symbology/internal/application"
	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/symbology"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SymbolService defines the symbol and asset operations exposed over HTTP.
type SymbolService interface {
	Generate(ctx context.Context, entity domain.NamedEntity) (string, error)
	CreateAsset(ctx context.Context, entity domain.NamedEntity) (*domain.Asset, error)
	CreateAssetsBatch(ctx context.Context, entities []domain.NamedEntity) *application.CreateAssetsBatchResult
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error)
	Derivative(ctx context.Context, req application.DerivativeRequest) (string, error)
	ComicSymbol(ctx context.Context, title, recordID string) (symbology.ComicIssue, error)
	IsUsed(symbol string) bool
	Stats() symbology.Stats
}

type NomenclatureMigrator interface {
	Run(ctx context.Context) (*application.MigrationReport, error)
}

type Handler struct {
	symbolService SymbolService
	migrator      NomenclatureMigrator
}

func NewHandler(symbolService SymbolService, migrator NomenclatureMigrator) *Handler {
	return &Handler{
		symbolService: symbolService,
		migrator:      migrator,
	}
}

type EntityRequest struct {
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	VariationHint string `json:"variation_hint"`
}

func (r EntityRequest) toEntity() (domain.NamedEntity, error) {
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.NamedEntity{}, err
	}
	return domain.NamedEntity{Name: r.Name, Category: category, VariationHint: r.VariationHint}, nil
}

type CreateAssetsBatchRequest struct {
	Assets []EntityRequest `json:"assets" binding:"required,min=1,dive"`
}

type DerivativeSymbolRequest struct {
	Base    string          `json:"base"`
	Name    string          `json:"name"`
	Kind    string          `json:"kind" binding:"required"`
	Month   string          `json:"month"`
	Year    string          `json:"year"`
	CallPut string          `json:"call_put"`
	Yield   *domain.Decimal `json:"yield"`
}

type ComicSymbolRequest struct {
	Title    string `json:"title" binding:"required"`
	RecordID string `json:"record_id"`
}

// SymbolResponse carries the rendered symbol and its parsed segments.
type SymbolResponse struct {
	Symbol         string   `json:"symbol"`
	Base           string   `json:"base"`
	SuffixSegments []string `json:"suffix_segments,omitempty"`
}

type SymbolStatusResponse struct {
	Symbol string `json:"symbol"`
	InUse  bool   `json:"in_use"`
}

type ComicSymbolResponse struct {
	symbology.ComicIssue
	Symbol string `json:"symbol"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newSymbolResponse(rendered string) SymbolResponse {
	parsed := domain.ParseSymbol(rendered)
	return SymbolResponse{Symbol: rendered, Base: parsed.Base, SuffixSegments: parsed.SuffixSegments}
}

func (h *Handler) GenerateSymbol(c *gin.Context) {
	var req EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	entity, err := req.toEntity()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	symbol, err := h.symbolService.Generate(c.Request.Context(), entity)
	if err != nil {
		h.fail(c, "Failed to generate symbol", err, "name", req.Name)
		return
	}

	c.JSON(http.StatusOK, newSymbolResponse(symbol))
}

func (h *Handler) GetSymbolStatus(c *gin.Context) {
	symbol := symbology.NormalizeSymbol(c.Param("symbol"))
	c.JSON(http.StatusOK, SymbolStatusResponse{Symbol: symbol, InUse: h.symbolService.IsUsed(symbol)})
}

func (h *Handler) DerivativeSymbol(c *gin.Context) {
	var req DerivativeSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	params := symbology.DerivativeParams{Month: req.Month, Year: req.Year, Yield: req.Yield}
	if req.CallPut != "" {
		cp, err := symbology.ParseCallPut(req.CallPut)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		params.CallPut = cp
	}

	symbol, err := h.symbolService.Derivative(c.Request.Context(), application.DerivativeRequest{
		Base:   req.Base,
		Name:   req.Name,
		Kind:   symbology.DerivativeKind(req.Kind),
		Params: params,
	})
	if err != nil {
		h.fail(c, "Failed to format derivative symbol", err, "kind", req.Kind)
		return
	}

	c.JSON(http.StatusOK, newSymbolResponse(symbol))
}

func (h *Handler) ComicSymbol(c *gin.Context) {
	var req ComicSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	issue, err := h.symbolService.ComicSymbol(c.Request.Context(), req.Title, req.RecordID)
	if err != nil {
		h.fail(c, "Failed to parse comic title", err, "title", req.Title)
		return
	}

	c.JSON(http.StatusOK, ComicSymbolResponse{ComicIssue: issue, Symbol: issue.Rendered()})
}

func (h *Handler) RegistryStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.symbolService.Stats())
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	entity, err := req.toEntity()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	asset, err := h.symbolService.CreateAsset(c.Request.Context(), entity)
	if err != nil {
		h.fail(c, "Failed to create asset", err, "name", req.Name)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) CreateAssetsBatch(c *gin.Context) {
	var req CreateAssetsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	entities := make([]domain.NamedEntity, len(req.Assets))
	for i, r := range req.Assets {
		entity, err := r.toEntity()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "assets[" + strconv.Itoa(i) + "]: " + err.Error()})
			return
		}
		entities[i] = entity
	}

	result := h.symbolService.CreateAssetsBatch(c.Request.Context(), entities)

	status := http.StatusCreated
	switch {
	case len(result.Successful) == 0:
		status = http.StatusUnprocessableEntity
	case len(result.Failed) > 0:
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

func (h *Handler) ListAssets(c *gin.Context) {
	var category domain.Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		category = parsed
	}

	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil || limit <= 0 || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and " + strconv.Itoa(maxListLimit)})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "offset must be a non-negative integer"})
		return
	}

	assets, err := h.symbolService.ListAssets(c.Request.Context(), category, limit, offset)
	if err != nil {
		h.fail(c, "Failed to list assets", err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *Handler) GetAsset(c *gin.Context) {
	assetID := c.Param("id")

	asset, err := h.symbolService.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		h.fail(c, "Failed to get asset", err, "asset_id", assetID)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) MigrateNomenclature(c *gin.Context) {
	report, err := h.migrator.Run(c.Request.Context())
	if err != nil {
		h.fail(c, "Nomenclature migration failed", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// fail logs err and writes it with the status its sentinel maps to.
func (h *Handler) fail(c *gin.Context, msg string, err error, attrs ...any) {
	slog.ErrorContext(c.Request.Context(), msg, append(attrs, "error", err)...)
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAsset), errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateSymbol), errors.Is(err, symbology.ErrTickerSpaceExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
