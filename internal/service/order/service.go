package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/clipdesk/clipdesk/internal/cache"
	"github.com/clipdesk/clipdesk/internal/config"
	"github.com/clipdesk/clipdesk/internal/entity"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
	"github.com/clipdesk/clipdesk/internal/messaging"
	repo "github.com/clipdesk/clipdesk/internal/repository/order"
	"github.com/clipdesk/clipdesk/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/clipdesk/clipdesk/service/order")

// Identity carries the resolved caller for authorization and ownership
// checks. The transport layer builds it; the service never inspects
// sessions or tokens itself.
type Identity struct {
	Actor lifecycle.Actor
	Email string
}

// IsStaff reports whether the identity bypasses ownership checks.
func (i Identity) IsStaff() bool {
	return i.Actor == lifecycle.ActorAdmin || i.Actor == lifecycle.ActorSystem
}

// errNotOwner aborts a mutation when a client touches someone else's order.
var errNotOwner = errors.New("order owned by another client")

// Service encapsulates business logic around the order lifecycle.
type Service struct {
	repo      repo.Store
	engine    *lifecycle.Engine
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
	now       func() time.Time
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository repo.Store
	Engine     *lifecycle.Engine
	Cache      cache.Store `optional:"true"`
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client `optional:"true"`
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		engine:    p.Engine,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput describes a new order request.
type CreateInput struct {
	UserID       *uuid.UUID
	Email        string
	Tier         lifecycle.Tier
	Platform     entity.Platform
	Vibe         string
	EditingLevel lifecycle.EditingLevel
	AddOns       entity.AddOns
}

// Create persists a new order in DRAFT with tier-derived attributes and the
// initial history entry (null from-status).
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Order, error) {
	switch {
	case in.Email == "":
		return nil, errorbank.BadRequest("email is required")
	case !in.Tier.Valid():
		return nil, errorbank.BadRequest("unknown tier", errorbank.WithDetail("tier", string(in.Tier)))
	case !in.Platform.Valid():
		return nil, errorbank.BadRequest("unknown platform", errorbank.WithDetail("platform", string(in.Platform)))
	case !in.EditingLevel.Valid():
		return nil, errorbank.BadRequest("unknown editing level", errorbank.WithDetail("editing_level", string(in.EditingLevel)))
	case in.Vibe == "":
		return nil, errorbank.BadRequest("vibe is required")
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.tier", string(in.Tier))))
	defer span.End()

	now := s.now()
	rules := lifecycle.RulesFor(in.Tier)
	order := &entity.Order{
		ID:                uuid.New(),
		UserID:            in.UserID,
		Email:             in.Email,
		Tier:              in.Tier,
		Platform:          in.Platform,
		Vibe:              in.Vibe,
		EditingLevel:      in.EditingLevel,
		AddOns:            in.AddOns,
		RawLimitSeconds:   rules.RawLimitSeconds,
		RevisionsIncluded: rules.RevisionsIncluded,
		Status:            lifecycle.StatusDraft,
		PaymentStatus:     lifecycle.PaymentUnpaid,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	first := &entity.StatusHistory{
		ToStatus:  lifecycle.StatusDraft,
		Actor:     lifecycle.ActorClient,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, order, first); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID.String()), zap.Error(err))
	}

	s.publishEvent(ctx, OrderEvent{
		Type:       EventOrderCreated,
		ID:         order.ID,
		Status:     order.Status,
		Actor:      lifecycle.ActorClient,
		OccurredAt: now,
	})
	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id uuid.UUID, ident Identity) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		if !ident.IsStaff() && !order.OwnedBy(ident.Email) {
			return nil, errorbank.Forbidden("order belongs to another client")
		}
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id.String()), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	if !ident.IsStaff() && !order.OwnedBy(ident.Email) {
		return nil, errorbank.Forbidden("order belongs to another client")
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", id.String()), zap.Error(err))
	}

	return order, nil
}

// List returns the caller's orders; administrators see every order.
func (s *Service) List(ctx context.Context, ident Identity) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	var (
		orders []entity.Order
		err    error
	)
	if ident.IsStaff() {
		orders, err = s.repo.ListAll(ctx)
	} else {
		orders, err = s.repo.ListByEmail(ctx, ident.Email)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// MarkPaid confirms payment: AWAITING_PAYMENT -> PAID, computing the due
// date once. Triggered by admins or the payment-confirmation webhook.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, ident Identity) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.MarkPaid", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	return s.transition(ctx, id, lifecycle.StatusPaid, ident, nil)
}

// SetStatus applies a generic admin transition validated against the table.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, target lifecycle.Status, ident Identity) (*entity.Order, error) {
	if !ident.IsStaff() {
		return nil, errorbank.Forbidden("only administrators may set status")
	}
	if !target.Valid() {
		return nil, errorbank.BadRequest("unknown status", errorbank.WithDetail("status", string(target)))
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.SetStatus", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.target_status", target.String()),
	))
	defer span.End()

	return s.transition(ctx, id, target, ident, nil)
}

// Approve lets the owning client accept a delivered order.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, ident Identity) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Approve", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	return s.transition(ctx, id, lifecycle.StatusCompleted, ident, nil)
}

// RevisionInput carries a consolidated revision request.
type RevisionInput struct {
	Notes      string
	Categories []string
}

// RequestRevision consumes one unit of revision quota and records the notes
// as a message. Counter increment, status change, history append, and the
// message insert commit together.
func (s *Service) RequestRevision(ctx context.Context, id uuid.UUID, in RevisionInput, ident Identity) (*entity.Order, error) {
	if strings.TrimSpace(in.Notes) == "" {
		return nil, errorbank.BadRequest("revision notes are required")
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.RequestRevision", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	return s.transition(ctx, id, lifecycle.StatusRevisionRequested, ident, func(ctx context.Context, tx repo.Tx, order *entity.Order) error {
		categories := "none"
		if len(in.Categories) > 0 {
			categories = strings.Join(in.Categories, ", ")
		}
		return tx.InsertMessage(ctx, &entity.Message{
			OrderID:   order.ID,
			Sender:    lifecycle.ActorClient,
			Body:      fmt.Sprintf("[Revision request]\nCategories: %s\n\n%s", categories, in.Notes),
			CreatedAt: s.now(),
		})
	})
}

// DeliveryInput describes one produced artifact upload.
type DeliveryInput struct {
	StorageKey      string
	Filename        string
	DurationSeconds *int
}

// RegisterDelivery creates the next-version delivery for an order. From
// IN_PROGRESS or REVISION_IN_PROGRESS it also transitions to DELIVERED;
// re-registering while already DELIVERED adds a row without a new history
// entry.
func (s *Service) RegisterDelivery(ctx context.Context, id uuid.UUID, in DeliveryInput, ident Identity) (*entity.Delivery, error) {
	if !ident.IsStaff() {
		return nil, errorbank.Forbidden("only administrators may register deliveries")
	}
	if in.StorageKey == "" || in.Filename == "" {
		return nil, errorbank.BadRequest("storage key and filename are required")
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.RegisterDelivery", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	delivery := &entity.Delivery{
		OrderID:         id,
		StorageKey:      in.StorageKey,
		Filename:        in.Filename,
		DurationSeconds: in.DurationSeconds,
		CreatedAt:       s.now(),
	}

	var (
		tr           lifecycle.Transition
		transitioned bool
	)
	updated, err := s.repo.WithOrder(ctx, id, func(ctx context.Context, tx repo.Tx, order *entity.Order) error {
		switch order.Status {
		case lifecycle.StatusInProgress, lifecycle.StatusRevisionInProgress:
			state := order.State()
			var err error
			tr, err = s.engine.Apply(&state, lifecycle.StatusDelivered, ident.Actor, s.now())
			if err != nil {
				return err
			}
			transitioned = true
			order.SetState(state)
			order.UpdatedAt = tr.At
			if err := tx.AppendHistory(ctx, historyEntry(order.ID, tr)); err != nil {
				return err
			}
		case lifecycle.StatusDelivered:
			// Re-delivery of the same cycle: new version row only.
		default:
			return &lifecycle.InvalidTransitionError{From: order.Status, To: lifecycle.StatusDelivered}
		}
		return tx.InsertDelivery(ctx, delivery)
	})
	if err != nil {
		return nil, s.mapDomainError(err, span)
	}

	s.invalidateCache(ctx, id)
	if transitioned {
		s.publishEvent(ctx, OrderEvent{
			Type:       EventOrderStatusChanged,
			ID:         id,
			Status:     updated.Status,
			FromStatus: &tr.From,
			Actor:      tr.Actor,
			OccurredAt: tr.At,
		})
	}
	return delivery, nil
}

// BriefInput carries the creative brief.
type BriefInput struct {
	Want        string
	Avoid       string
	MustInclude string
	References  []string
}

// SubmitBrief stores the creative brief and advances the draft: pro-level
// orders go to QUOTE_REQUESTED, everything else straight to
// AWAITING_PAYMENT. The advance is recorded as a system transition.
func (s *Service) SubmitBrief(ctx context.Context, id uuid.UUID, in BriefInput, ident Identity) (*entity.Order, error) {
	if strings.TrimSpace(in.Want) == "" {
		return nil, errorbank.BadRequest("brief must describe what you want")
	}
	if len(in.References) > entity.MaxReferenceLinks {
		return nil, errorbank.BadRequest("too many reference links", errorbank.WithDetail("max", entity.MaxReferenceLinks))
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.SubmitBrief", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var tr lifecycle.Transition
	updated, err := s.repo.WithOrder(ctx, id, func(ctx context.Context, tx repo.Tx, order *entity.Order) error {
		if !ident.IsStaff() && !order.OwnedBy(ident.Email) {
			return errNotOwner
		}

		target := lifecycle.StatusAwaitingPayment
		if order.EditingLevel.RequiresQuote() {
			target = lifecycle.StatusQuoteRequested
		}

		state := order.State()
		var err error
		tr, err = s.engine.Apply(&state, target, lifecycle.ActorSystem, s.now())
		if err != nil {
			return err
		}
		order.SetState(state)
		order.UpdatedAt = tr.At
		order.BriefWant = in.Want
		order.BriefAvoid = in.Avoid
		order.BriefMustInclude = in.MustInclude
		if target == lifecycle.StatusQuoteRequested {
			at := tr.At
			order.QuoteRequestedAt = &at
		}
		return tx.AppendHistory(ctx, historyEntry(order.ID, tr))
	})
	if err != nil {
		return nil, s.mapDomainError(err, span)
	}

	if err := s.repo.ReplaceReferenceLinks(ctx, id, in.References); err != nil {
		s.logger.Warn("reference links update failed", zap.String("id", id.String()), zap.Error(err))
	}

	s.invalidateCache(ctx, id)
	s.publishEvent(ctx, OrderEvent{
		Type:       EventOrderStatusChanged,
		ID:         id,
		Status:     updated.Status,
		FromStatus: &tr.From,
		Actor:      lifecycle.ActorSystem,
		OccurredAt: tr.At,
	})
	return updated, nil
}

// AssetInput registers one uploaded source file.
type AssetInput struct {
	Kind            entity.AssetKind
	StorageKey      string
	Filename        string
	MimeType        string
	SizeBytes       int64
	DurationSeconds *int
}

// RegisterAsset records an uploaded source file against the order. The
// storage key must live under the order's namespace.
func (s *Service) RegisterAsset(ctx context.Context, id uuid.UUID, in AssetInput, ident Identity) error {
	switch {
	case !in.Kind.Valid():
		return errorbank.BadRequest("unknown asset kind", errorbank.WithDetail("kind", string(in.Kind)))
	case in.StorageKey == "" || in.Filename == "" || in.MimeType == "":
		return errorbank.BadRequest("storage key, filename and mime type are required")
	case in.SizeBytes <= 0:
		return errorbank.BadRequest("size must be positive")
	case !strings.HasPrefix(in.StorageKey, fmt.Sprintf("orders/%s/", id)):
		return errorbank.BadRequest("storage key outside order namespace")
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.RegisterAsset", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	if _, err := s.Get(ctx, id, ident); err != nil {
		return err
	}

	asset := &entity.Asset{
		OrderID:         id,
		Kind:            in.Kind,
		StorageKey:      in.StorageKey,
		Filename:        in.Filename,
		MimeType:        in.MimeType,
		SizeBytes:       in.SizeBytes,
		DurationSeconds: in.DurationSeconds,
		CreatedAt:       s.now(),
	}
	if err := s.repo.InsertAsset(ctx, asset); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to register asset", errorbank.WithCause(err))
	}
	return nil
}

// AddMessage appends a free-text message to the order thread.
func (s *Service) AddMessage(ctx context.Context, id uuid.UUID, body string, ident Identity) error {
	if strings.TrimSpace(body) == "" {
		return errorbank.BadRequest("message body is required")
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.AddMessage", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	if _, err := s.Get(ctx, id, ident); err != nil {
		return err
	}

	msg := &entity.Message{
		OrderID:   id,
		Sender:    ident.Actor,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to add message", errorbank.WithCause(err))
	}
	return nil
}

// History returns the order's transition log, newest first.
func (s *Service) History(ctx context.Context, id uuid.UUID, ident Identity) ([]entity.StatusHistory, error) {
	if _, err := s.Get(ctx, id, ident); err != nil {
		return nil, err
	}
	entries, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, errorbank.Internal("failed to load history", errorbank.WithCause(err))
	}
	return entries, nil
}

// Deliveries returns the order's delivered artifact versions, newest first.
func (s *Service) Deliveries(ctx context.Context, id uuid.UUID, ident Identity) ([]entity.Delivery, error) {
	if _, err := s.Get(ctx, id, ident); err != nil {
		return nil, err
	}
	deliveries, err := s.repo.Deliveries(ctx, id)
	if err != nil {
		return nil, errorbank.Internal("failed to load deliveries", errorbank.WithCause(err))
	}
	return deliveries, nil
}

// Messages returns the order thread in posting order.
func (s *Service) Messages(ctx context.Context, id uuid.UUID, ident Identity) ([]entity.Message, error) {
	if _, err := s.Get(ctx, id, ident); err != nil {
		return nil, err
	}
	messages, err := s.repo.Messages(ctx, id)
	if err != nil {
		return nil, errorbank.Internal("failed to load messages", errorbank.WithCause(err))
	}
	return messages, nil
}

// ReferenceLinks returns the inspiration links in client order.
func (s *Service) ReferenceLinks(ctx context.Context, id uuid.UUID, ident Identity) ([]entity.ReferenceLink, error) {
	if _, err := s.Get(ctx, id, ident); err != nil {
		return nil, err
	}
	links, err := s.repo.ReferenceLinks(ctx, id)
	if err != nil {
		return nil, errorbank.Internal("failed to load reference links", errorbank.WithCause(err))
	}
	return links, nil
}

// ReplaceReferenceLinks swaps the order's reference list, capped at five.
func (s *Service) ReplaceReferenceLinks(ctx context.Context, id uuid.UUID, urls []string, ident Identity) error {
	if len(urls) > entity.MaxReferenceLinks {
		return errorbank.BadRequest("too many reference links", errorbank.WithDetail("max", entity.MaxReferenceLinks))
	}
	if _, err := s.Get(ctx, id, ident); err != nil {
		return err
	}
	if err := s.repo.ReplaceReferenceLinks(ctx, id, urls); err != nil {
		return errorbank.Internal("failed to replace reference links", errorbank.WithCause(err))
	}
	return nil
}

// transition runs one lifecycle transition as a single transactional unit:
// row lock, guard checks, mutation, history append, optional extra writes.
func (s *Service) transition(ctx context.Context, id uuid.UUID, target lifecycle.Status, ident Identity, extra repo.TxFunc) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.transition", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.target_status", target.String()),
		attribute.String("order.actor", ident.Actor.String()),
	))
	defer span.End()

	var tr lifecycle.Transition
	updated, err := s.repo.WithOrder(ctx, id, func(ctx context.Context, tx repo.Tx, order *entity.Order) error {
		if ident.Actor == lifecycle.ActorClient && !order.OwnedBy(ident.Email) {
			return errNotOwner
		}

		state := order.State()
		var err error
		tr, err = s.engine.Apply(&state, target, ident.Actor, s.now())
		if err != nil {
			return err
		}
		order.SetState(state)
		order.UpdatedAt = tr.At

		if err := tx.AppendHistory(ctx, historyEntry(order.ID, tr)); err != nil {
			return err
		}
		if extra != nil {
			return extra(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapDomainError(err, span)
	}

	s.invalidateCache(ctx, id)
	s.publishEvent(ctx, OrderEvent{
		Type:       EventOrderStatusChanged,
		ID:         id,
		Status:     updated.Status,
		FromStatus: &tr.From,
		Actor:      tr.Actor,
		OccurredAt: tr.At,
	})
	return updated, nil
}

func historyEntry(orderID uuid.UUID, tr lifecycle.Transition) *entity.StatusHistory {
	from := tr.From
	return &entity.StatusHistory{
		OrderID:    orderID,
		FromStatus: &from,
		ToStatus:   tr.To,
		Actor:      tr.Actor,
		CreatedAt:  tr.At,
	}
}

// mapDomainError translates repository and lifecycle failures onto the
// shared error taxonomy. Guard failures surface before any write, so the
// caller may safely retry generic persistence errors.
func (s *Service) mapDomainError(err error, span trace.Span) error {
	var (
		invalid   *lifecycle.InvalidTransitionError
		forbidden *lifecycle.ForbiddenError
		quota     *lifecycle.QuotaExceededError
	)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("order not found")
	case errors.Is(err, errNotOwner):
		return errorbank.Forbidden("order belongs to another client")
	case errors.As(err, &invalid):
		return errorbank.Conflict("invalid status transition",
			errorbank.WithDetail("from", invalid.From.String()),
			errorbank.WithDetail("to", invalid.To.String()),
		)
	case errors.As(err, &forbidden):
		return errorbank.Forbidden("actor may not perform this transition",
			errorbank.WithDetail("actor", forbidden.Actor.String()),
			errorbank.WithDetail("from", forbidden.From.String()),
			errorbank.WithDetail("to", forbidden.To.String()),
		)
	case errors.As(err, &quota):
		return errorbank.Unprocessable("revision quota exceeded",
			errorbank.WithDetail("revisions_used", quota.Used),
			errorbank.WithDetail("revisions_included", quota.Included),
		)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("order update failed", errorbank.WithCause(err))
	}
}

func (s *Service) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) getFromCache(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache invalidation failed", zap.String("id", id.String()), zap.Error(err))
	}
}
