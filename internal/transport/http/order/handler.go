package order

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clipdesk/clipdesk/internal/dto"
	"github.com/clipdesk/clipdesk/internal/entity"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
	"github.com/clipdesk/clipdesk/internal/presentation/http/response"
	service "github.com/clipdesk/clipdesk/internal/service/order"
	"github.com/clipdesk/clipdesk/internal/transport/http/middleware"
	"github.com/clipdesk/clipdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/clipdesk/clipdesk/transport/http/order")

// Handler exposes order lifecycle endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts client and admin routes on the Echo instance.
func Register(e *echo.Echo, h *Handler, actors *middleware.ActorResolver) {
	g := e.Group("/orders", actors.Resolve)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("/:id/brief", h.submitBrief)
	g.POST("/:id/assets", h.registerAsset)
	g.GET("/:id/messages", h.listMessages)
	g.POST("/:id/messages", h.addMessage)
	g.GET("/:id/history", h.history)
	g.GET("/:id/deliveries", h.listDeliveries)
	g.GET("/:id/references", h.listReferences)
	g.PUT("/:id/references", h.replaceReferences)
	g.POST("/:id/approve", h.approve)
	g.POST("/:id/request-revision", h.requestRevision)

	admin := e.Group("/admin/orders", actors.Resolve, actors.RequireAdmin)
	admin.GET("", h.adminList)
	admin.POST("/:id/mark-paid", h.markPaid)
	admin.POST("/:id/status", h.setStatus)
	admin.POST("/:id/deliveries", h.registerDelivery)
}

func orderID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errorbank.BadRequest("invalid order id", errorbank.WithCause(err))
	}
	return id, nil
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Email        string        `json:"email"`
		Tier         string        `json:"tier"`
		Platform     string        `json:"platform"`
		Vibe         string        `json:"vibe"`
		EditingLevel string        `json:"editing_level"`
		AddOns       entity.AddOns `json:"add_ons"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ident := middleware.IdentityFrom(c)
	if payload.Email == "" {
		payload.Email = ident.Email
	}
	if payload.EditingLevel == "" {
		payload.EditingLevel = string(lifecycle.EditingBasic)
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("order.tier", payload.Tier),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, service.CreateInput{
		Email:        payload.Email,
		Tier:         lifecycle.Tier(payload.Tier),
		Platform:     entity.Platform(payload.Platform),
		Vibe:         payload.Vibe,
		EditingLevel: lifecycle.EditingLevel(payload.EditingLevel),
		AddOns:       payload.AddOns,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	orders, err := h.svc.List(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toOrderList(orders)).Build()
}

func (h *Handler) adminList(c echo.Context) error {
	return h.list(c)
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := h.svc.Get(ctx, id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) submitBrief(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Want        string   `json:"want"`
		Avoid       string   `json:"avoid"`
		MustInclude string   `json:"must_include"`
		References  []string `json:"references"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	order, err := h.svc.SubmitBrief(c.Request().Context(), id, service.BriefInput{
		Want:        payload.Want,
		Avoid:       payload.Avoid,
		MustInclude: payload.MustInclude,
		References:  payload.References,
	}, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) registerAsset(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Kind            string `json:"kind"`
		StorageKey      string `json:"storage_key"`
		Filename        string `json:"filename"`
		MimeType        string `json:"mime_type"`
		SizeBytes       int64  `json:"size_bytes"`
		DurationSeconds *int   `json:"duration_seconds"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	err = h.svc.RegisterAsset(c.Request().Context(), id, service.AssetInput{
		Kind:            entity.AssetKind(payload.Kind),
		StorageKey:      payload.StorageKey,
		Filename:        payload.Filename,
		MimeType:        payload.MimeType,
		SizeBytes:       payload.SizeBytes,
		DurationSeconds: payload.DurationSeconds,
	}, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).Build()
}

func (h *Handler) listMessages(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	messages, err := h.svc.Messages(c.Request().Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.MessageResponse{Sender: m.Sender, Body: m.Body, CreatedAt: m.CreatedAt})
	}
	return b.WithData(out).Build()
}

func (h *Handler) addMessage(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	if err := h.svc.AddMessage(c.Request().Context(), id, payload.Body, middleware.IdentityFrom(c)); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).Build()
}

func (h *Handler) history(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	entries, err := h.svc.History(c.Request().Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StatusHistoryResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Actor:      e.Actor,
			CreatedAt:  e.CreatedAt,
		})
	}
	return b.WithData(out).Build()
}

func (h *Handler) listDeliveries(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	deliveries, err := h.svc.Deliveries(c.Request().Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDeliveryList(deliveries)).Build()
}

func (h *Handler) listReferences(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	links, err := h.svc.ReferenceLinks(c.Request().Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	return b.WithData(urls).Build()
}

func (h *Handler) replaceReferences(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		References []string `json:"references"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	if err := h.svc.ReplaceReferenceLinks(c.Request().Context(), id, payload.References, middleware.IdentityFrom(c)); err != nil {
		return b.WithError(err).Build()
	}
	return b.Build()
}

func (h *Handler) approve(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.approve", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := h.svc.Approve(ctx, id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) requestRevision(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Notes      string   `json:"notes"`
		Categories []string `json:"categories"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.requestRevision", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := h.svc.RequestRevision(ctx, id, service.RevisionInput{
		Notes:      payload.Notes,
		Categories: payload.Categories,
	}, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) markPaid(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.markPaid", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := h.svc.MarkPaid(ctx, id, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) setStatus(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.setStatus", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.target_status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.SetStatus(ctx, id, lifecycle.Status(payload.Status), middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) registerDelivery(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		StorageKey      string `json:"storage_key"`
		Filename        string `json:"filename"`
		DurationSeconds *int   `json:"duration_seconds"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.registerDelivery", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	delivery, err := h.svc.RegisterDelivery(ctx, id, service.DeliveryInput{
		StorageKey:      payload.StorageKey,
		Filename:        payload.Filename,
		DurationSeconds: payload.DurationSeconds,
	}, middleware.IdentityFrom(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(toDeliveryDTO(delivery)).Build()
}

func toOrderList(orders []entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, dto.NewOrderResponse(&orders[i]))
	}
	return out
}

func toDeliveryList(deliveries []entity.Delivery) []dto.DeliveryResponse {
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		out = append(out, toDeliveryDTO(&deliveries[i]))
	}
	return out
}

func toDeliveryDTO(d *entity.Delivery) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		Version:         d.Version,
		StorageKey:      d.StorageKey,
		Filename:        d.Filename,
		DurationSeconds: d.DurationSeconds,
		CreatedAt:       d.CreatedAt,
	}
}
