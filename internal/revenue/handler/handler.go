// Package handler exposes the revenue distribution endpoints. Handlers parse
// raw amounts into value objects, delegate to the service, and render JSON.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wellflow/internal/platform/metrics"
	"wellflow/internal/platform/middleware"
	"wellflow/internal/revenue/models"
	"wellflow/internal/revenue/service"
	"wellflow/internal/revenue/store"
	"wellflow/internal/transport/http/shared"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

// Service defines the distribution operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, input service.CreateDistributionInput) (*models.RevenueDistribution, error)
	Recalculate(ctx context.Context, id domain.DistributionID, volumes models.ProductionVolumes, breakdown models.RevenueBreakdown, actor string) (*models.RevenueDistribution, error)
	ProcessPayment(ctx context.Context, id domain.DistributionID, checkNumber string, paymentDate time.Time, actor string) (*models.RevenueDistribution, error)
	Get(ctx context.Context, id domain.DistributionID) (*models.RevenueDistribution, error)
	List(ctx context.Context, organizationID domain.OrganizationID, filter store.ListFilter) ([]*models.RevenueDistribution, error)
}

// Handler handles revenue distribution endpoints.
type Handler struct {
	logger        *slog.Logger
	distributions Service
	metrics       *metrics.Metrics
	jwtValidator  middleware.JWTValidator
}

// New creates a new revenue Handler.
func New(
	distributions Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:        logger,
		distributions: distributions,
		metrics:       m,
		jwtValidator:  jwtValidator,
	}
}

// Register registers the revenue routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(revenueRouter chi.Router) {
		revenueRouter.Use(middleware.Recovery(h.logger))
		revenueRouter.Use(middleware.RequestID)
		revenueRouter.Use(middleware.Logger(h.logger))
		revenueRouter.Use(middleware.Timeout(30 * time.Second))
		revenueRouter.Use(middleware.ContentTypeJSON)
		revenueRouter.Use(middleware.LatencyMiddleware(h.metrics))
		revenueRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		revenueRouter.Post("/revenue-distributions", h.handleCreate)
		revenueRouter.Get("/revenue-distributions", h.handleList)
		revenueRouter.Get("/revenue-distributions/{distributionID}", h.handleGet)
		revenueRouter.Post("/revenue-distributions/{distributionID}/recalculate", h.handleRecalculate)
		revenueRouter.Post("/revenue-distributions/{distributionID}/payment", h.handlePayment)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	organizationID, ok := h.callerOrganization(w, r)
	if !ok {
		return
	}

	var req createDistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	wellID, err := domain.ParseWellID(req.WellID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	partnerID, err := domain.ParsePartnerID(req.PartnerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	orderID, err := domain.ParseDivisionOrderID(req.DivisionOrderID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	month, err := domain.ParseProductionMonth(req.ProductionMonth)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	volumes, err := req.Volumes.toModel()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	breakdown, err := req.Breakdown.toModel()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dist, err := h.distributions.Create(ctx, service.CreateDistributionInput{
		OrganizationID:  organizationID,
		WellID:          wellID,
		PartnerID:       partnerID,
		DivisionOrderID: orderID,
		ProductionMonth: month,
		Volumes:         volumes,
		Breakdown:       breakdown,
		Actor:           middleware.GetUserID(ctx),
	})
	if err != nil {
		h.logCommandError(ctx, "create revenue distribution", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, distributionResponseFrom(dist))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	distributionID, err := domain.ParseDistributionID(chi.URLParam(r, "distributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dist, err := h.distributions.Get(r.Context(), distributionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, distributionResponseFrom(dist))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	organizationID, ok := h.callerOrganization(w, r)
	if !ok {
		return
	}

	filter, err := listFilterFrom(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	distributions, err := h.distributions.List(ctx, organizationID, filter)
	if err != nil {
		h.logCommandError(ctx, "list revenue distributions", err)
		shared.WriteError(w, err)
		return
	}

	responses := make([]distributionResponse, 0, len(distributions))
	for _, dist := range distributions {
		responses = append(responses, distributionResponseFrom(dist))
	}
	shared.WriteJSON(w, http.StatusOK, listDistributionsResponse{Distributions: responses})
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	distributionID, err := domain.ParseDistributionID(chi.URLParam(r, "distributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req recalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	volumes, err := req.Volumes.toModel()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	breakdown, err := req.Breakdown.toModel()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dist, err := h.distributions.Recalculate(ctx, distributionID, volumes, breakdown, middleware.GetUserID(ctx))
	if err != nil {
		h.logCommandError(ctx, "recalculate revenue", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, distributionResponseFrom(dist))
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	distributionID, err := domain.ParseDistributionID(chi.URLParam(r, "distributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	paymentDate, err := parseDate(req.PaymentDate, "paymentDate")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dist, err := h.distributions.ProcessPayment(ctx, distributionID, req.CheckNumber, paymentDate, middleware.GetUserID(ctx))
	if err != nil {
		h.logCommandError(ctx, "process payment", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, distributionResponseFrom(dist))
}

func (h *Handler) callerOrganization(w http.ResponseWriter, r *http.Request) (domain.OrganizationID, bool) {
	ctx := r.Context()
	raw := middleware.GetOrganizationID(ctx)
	if raw == "" {
		h.logger.ErrorContext(ctx, "organization missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.OrganizationID{}, false
	}
	organizationID, err := domain.ParseOrganizationID(raw)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid organization claim"))
		return domain.OrganizationID{}, false
	}
	return organizationID, true
}

func (h *Handler) logCommandError(ctx context.Context, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "command failed",
			"op", op,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, "command rejected",
		"op", op,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}

func listFilterFrom(r *http.Request) (store.ListFilter, error) {
	var filter store.ListFilter
	q := r.URL.Query()

	if raw := q.Get("wellId"); raw != "" {
		wellID, err := domain.ParseWellID(raw)
		if err != nil {
			return filter, err
		}
		filter.WellID = &wellID
	}
	if raw := q.Get("partnerId"); raw != "" {
		partnerID, err := domain.ParsePartnerID(raw)
		if err != nil {
			return filter, err
		}
		filter.PartnerID = &partnerID
	}
	if raw := q.Get("month"); raw != "" {
		month, err := domain.ParseProductionMonth(raw)
		if err != nil {
			return filter, err
		}
		filter.Month = &month
	}
	filter.UnpaidOnly = q.Get("unpaid") == "true"

	var err error
	if filter.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseIntParam(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}
