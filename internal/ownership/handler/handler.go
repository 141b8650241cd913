// Package handler exposes the division order and interest summary endpoints.
// Handlers parse and pre-validate raw request fields, delegate to the
// service, and render JSON; business rules stay in models and service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wellflow/internal/ownership/models"
	"wellflow/internal/ownership/service"
	"wellflow/internal/ownership/store"
	"wellflow/internal/platform/metrics"
	"wellflow/internal/platform/middleware"
	"wellflow/internal/transport/http/shared"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// Service defines the division order operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, input service.CreateDivisionOrderInput) (*models.DivisionOrder, error)
	UpdateInterest(ctx context.Context, id domain.DivisionOrderID, newInterest domain.DecimalInterest, actor string) (*models.DivisionOrder, error)
	Activate(ctx context.Context, id domain.DivisionOrderID, actor string) (*models.DivisionOrder, error)
	Deactivate(ctx context.Context, id domain.DivisionOrderID, endDate time.Time, actor string) (*models.DivisionOrder, error)
	Get(ctx context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error)
	List(ctx context.Context, organizationID domain.OrganizationID, filter store.ListFilter) ([]*models.DivisionOrder, error)
	InterestSummaryOn(ctx context.Context, wellID domain.WellID, date time.Time) (*service.InterestSummary, error)
}

// Handler handles division order endpoints.
type Handler struct {
	logger       *slog.Logger
	orders       Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new ownership Handler.
func New(
	orders Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		orders:       orders,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the ownership routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(orderRouter chi.Router) {
		orderRouter.Use(middleware.Recovery(h.logger))
		orderRouter.Use(middleware.RequestID)
		orderRouter.Use(middleware.Logger(h.logger))
		orderRouter.Use(middleware.Timeout(30 * time.Second))
		orderRouter.Use(middleware.ContentTypeJSON)
		orderRouter.Use(middleware.LatencyMiddleware(h.metrics))
		orderRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		orderRouter.Post("/division-orders", h.handleCreate)
		orderRouter.Get("/division-orders", h.handleList)
		orderRouter.Get("/division-orders/{orderID}", h.handleGet)
		orderRouter.Put("/division-orders/{orderID}/interest", h.handleUpdateInterest)
		orderRouter.Post("/division-orders/{orderID}/activate", h.handleActivate)
		orderRouter.Post("/division-orders/{orderID}/deactivate", h.handleDeactivate)
		orderRouter.Get("/wells/{wellID}/interest-summary", h.handleInterestSummary)
	})
}

type createOrderRequest struct {
	WellID          string  `json:"wellId"`
	PartnerID       string  `json:"partnerId"`
	DecimalInterest string  `json:"decimalInterest"`
	EffectiveDate   string  `json:"effectiveDate"`
	EndDate         *string `json:"endDate,omitempty"`
}

type updateInterestRequest struct {
	DecimalInterest string `json:"decimalInterest"`
}

type deactivateRequest struct {
	EndDate string `json:"endDate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	organizationID, ok := h.callerOrganization(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
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
	interest, err := domain.ParseDecimalInterest(req.DecimalInterest)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	effectiveDate, err := parseDate(req.EffectiveDate, "effectiveDate")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate, "endDate")
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		endDate = &end
	}

	order, err := h.orders.Create(ctx, service.CreateDivisionOrderInput{
		OrganizationID: organizationID,
		WellID:         wellID,
		PartnerID:      partnerID,
		Interest:       interest,
		EffectiveDate:  effectiveDate,
		EndDate:        endDate,
		Actor:          middleware.GetUserID(ctx),
	})
	if err != nil {
		h.logCommandError(ctx, "create division order", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, orderResponseFrom(order))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := domain.ParseDivisionOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, orderResponseFrom(order))
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

	orders, err := h.orders.List(ctx, organizationID, filter)
	if err != nil {
		h.logCommandError(ctx, "list division orders", err)
		shared.WriteError(w, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, orderResponseFrom(order))
	}
	shared.WriteJSON(w, http.StatusOK, listOrdersResponse{DivisionOrders: responses})
}

func (h *Handler) handleUpdateInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := domain.ParseDivisionOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req updateInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	interest, err := domain.ParseDecimalInterest(req.DecimalInterest)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	order, err := h.orders.UpdateInterest(ctx, orderID, interest, middleware.GetUserID(ctx))
	if err != nil {
		h.logCommandError(ctx, "update decimal interest", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, orderResponseFrom(order))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := domain.ParseDivisionOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	order, err := h.orders.Activate(ctx, orderID, middleware.GetUserID(ctx))
	if err != nil {
		h.logCommandError(ctx, "activate division order", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, orderResponseFrom(order))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := domain.ParseDivisionOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req deactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	order, err := h.orders.Deactivate(ctx, orderID, endDate, middleware.GetUserID(ctx))
	if err != nil {
		h.logCommandError(ctx, "deactivate division order", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, orderResponseFrom(order))
}

func (h *Handler) handleInterestSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wellID, err := domain.ParseWellID(chi.URLParam(r, "wellID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = parseDate(raw, "date")
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	summary, err := h.orders.InterestSummaryOn(ctx, wellID, date)
	if err != nil {
		h.logCommandError(ctx, "interest summary", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, summary)
}

// callerOrganization resolves the authenticated caller's organization. A
// missing or malformed claim yields an error response and ok=false.
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
	filter.ActiveOnly = q.Get("active") == "true"

	var err error
	if filter.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseIntParam(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}
