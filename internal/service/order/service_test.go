package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clipdesk/clipdesk/internal/config"
	"github.com/clipdesk/clipdesk/internal/entity"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
	"github.com/clipdesk/clipdesk/internal/messaging"
	"github.com/clipdesk/clipdesk/pkg/errorbank"
)

var (
	fixedNow    = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)
	clientIdent = Identity{Actor: lifecycle.ActorClient, Email: "creator@example.com"}
	adminIdent  = Identity{Actor: lifecycle.ActorAdmin, Email: "ops@clipdesk.io"}
	systemIdent = Identity{Actor: lifecycle.ActorSystem}
)

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewService(Params{
		Repository: store,
		Engine:     lifecycle.NewEngine(nil),
		Config:     config.Config{},
		Logger:     zap.NewNop(),
	})
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func seedOrder(store *fakeStore, status lifecycle.Status, mutate func(*entity.Order)) uuid.UUID {
	order := &entity.Order{
		ID:                uuid.New(),
		Email:             clientIdent.Email,
		Tier:              lifecycle.TierA,
		Platform:          entity.PlatformTikTok,
		Vibe:              "clean",
		EditingLevel:      lifecycle.EditingBasic,
		RawLimitSeconds:   120,
		RevisionsIncluded: 1,
		Status:            status,
		PaymentStatus:     lifecycle.PaymentUnpaid,
		CreatedAt:         fixedNow.Add(-time.Hour),
		UpdatedAt:         fixedNow.Add(-time.Hour),
	}
	if mutate != nil {
		mutate(order)
	}
	store.put(order)
	return order.ID
}

// fakePublisher records published payloads for assertions.
type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, _ []byte, value []byte) error {
	p.published = append(p.published, value)
	return nil
}

func (p *fakePublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (p *fakePublisher) Topic() string { return "orders.events" }

func (p *fakePublisher) events(t *testing.T) []OrderEvent {
	t.Helper()
	out := make([]OrderEvent, 0, len(p.published))
	for _, raw := range p.published {
		var event OrderEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		out = append(out, event)
	}
	return out
}

func newPublishingService(t *testing.T) (*Service, *fakeStore, *fakePublisher) {
	t.Helper()
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewService(Params{
		Repository: store,
		Engine:     lifecycle.NewEngine(nil),
		Config:     config.Config{Messaging: config.Messaging{Enabled: true, Kafka: config.Kafka{Topic: "orders.events"}}},
		Logger:     zap.NewNop(),
		Publisher:  pub,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc, store, pub
}

func errKind(t *testing.T, err error) errorbank.Kind {
	t.Helper()
	require.Error(t, err)
	return errorbank.From(err).Kind()
}

func TestCreateAppliesTierRules(t *testing.T) {
	svc, store := newTestService(t)

	order, err := svc.Create(context.Background(), CreateInput{
		Email:        "creator@example.com",
		Tier:         lifecycle.TierA,
		Platform:     entity.PlatformInstagram,
		Vibe:         "energetic",
		EditingLevel: lifecycle.EditingBasic,
	})
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusDraft, order.Status)
	assert.Equal(t, lifecycle.PaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, 120, order.RawLimitSeconds)
	assert.Equal(t, 1, order.RevisionsIncluded)
	assert.Equal(t, 0, order.RevisionsUsed)

	history, err := store.History(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus, "initial entry carries no from-status")
	assert.Equal(t, lifecycle.StatusDraft, history[0].ToStatus)
}

func TestCreateTierCIncludesTwoRevisions(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(context.Background(), CreateInput{
		Email:        "creator@example.com",
		Tier:         lifecycle.TierC,
		Platform:     entity.PlatformYouTube,
		Vibe:         "cinematic",
		EditingLevel: lifecycle.EditingPro,
	})
	require.NoError(t, err)
	assert.Equal(t, 600, order.RawLimitSeconds)
	assert.Equal(t, 2, order.RevisionsIncluded)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Tier: lifecycle.TierA, Platform: entity.PlatformTikTok, Vibe: "x", EditingLevel: lifecycle.EditingBasic})
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))

	_, err = svc.Create(context.Background(), CreateInput{Email: "a@b.c", Tier: "D", Platform: entity.PlatformTikTok, Vibe: "x", EditingLevel: lifecycle.EditingBasic})
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))
}

func TestMarkPaidComputesDueDate(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusAwaitingPayment, nil)

	order, err := svc.MarkPaid(context.Background(), id, systemIdent)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusPaid, order.Status)
	assert.Equal(t, lifecycle.PaymentPaid, order.PaymentStatus)
	require.NotNil(t, order.PaidAt)
	require.NotNil(t, order.DueAt)
	assert.Equal(t, fixedNow, *order.PaidAt)
	assert.Equal(t, order.PaidAt.Add(72*time.Hour), *order.DueAt)
}

func TestMarkPaidRushOrder(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusAwaitingPayment, func(o *entity.Order) {
		o.AddOns.Rush = true
	})

	order, err := svc.MarkPaid(context.Background(), id, adminIdent)
	require.NoError(t, err)
	assert.Equal(t, order.PaidAt.Add(24*time.Hour), *order.DueAt)
}

func TestMarkPaidRequiresAwaitingPayment(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	_, err := svc.MarkPaid(context.Background(), id, adminIdent)
	assert.Equal(t, errorbank.KindConflict, errKind(t, err))
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.MarkPaid(context.Background(), uuid.New(), adminIdent)
	assert.Equal(t, errorbank.KindNotFound, errKind(t, err))
}

func TestApprove(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, nil)

	order, err := svc.Approve(context.Background(), id, clientIdent)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, order.Status)

	history, err := store.History(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, lifecycle.StatusDelivered, *history[0].FromStatus)
	assert.Equal(t, lifecycle.StatusCompleted, history[0].ToStatus)
	assert.Equal(t, lifecycle.ActorClient, history[0].Actor)
}

func TestApproveByStrangerForbidden(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, nil)

	stranger := Identity{Actor: lifecycle.ActorClient, Email: "someone@else.com"}
	_, err := svc.Approve(context.Background(), id, stranger)
	assert.Equal(t, errorbank.KindForbidden, errKind(t, err))

	order, _ := store.GetByID(context.Background(), id)
	assert.Equal(t, lifecycle.StatusDelivered, order.Status)
}

func TestRequestRevision(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, nil)

	order, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "fix pacing"}, clientIdent)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusRevisionRequested, order.Status)
	assert.Equal(t, 1, order.RevisionsUsed)

	messages, err := store.Messages(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, lifecycle.ActorClient, messages[0].Sender)
	assert.Contains(t, messages[0].Body, "fix pacing")
	assert.Contains(t, messages[0].Body, "Categories: none")

	history, err := store.History(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, lifecycle.StatusRevisionRequested, history[0].ToStatus)
}

func TestRequestRevisionQuotaExceeded(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, func(o *entity.Order) {
		o.RevisionsUsed = 1
	})

	_, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "one more"}, clientIdent)
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindUnprocessableEntity, appErr.Kind())
	assert.Equal(t, 1, appErr.Details()["revisions_used"])
	assert.Equal(t, 1, appErr.Details()["revisions_included"])

	order, _ := store.GetByID(context.Background(), id)
	assert.Equal(t, lifecycle.StatusDelivered, order.Status, "status unchanged")
	assert.Equal(t, 1, order.RevisionsUsed, "counter unchanged")
	assert.Empty(t, store.history, "no history appended")
	assert.Empty(t, store.messages, "no message recorded")
}

func TestRequestRevisionRequiresNotes(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, nil)

	_, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "  "}, clientIdent)
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))
}

func TestRevisionLoopBoundedByQuota(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, func(o *entity.Order) {
		o.Tier = lifecycle.TierC
		o.RevisionsIncluded = 2
	})

	for i := 0; i < 2; i++ {
		_, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "tweak"}, clientIdent)
		require.NoError(t, err)
		_, err = svc.SetStatus(context.Background(), id, lifecycle.StatusRevisionInProgress, adminIdent)
		require.NoError(t, err)
		_, err = svc.SetStatus(context.Background(), id, lifecycle.StatusDelivered, adminIdent)
		require.NoError(t, err)
	}

	_, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "again"}, clientIdent)
	assert.Equal(t, errorbank.KindUnprocessableEntity, errKind(t, err))

	order, _ := store.GetByID(context.Background(), id)
	assert.Equal(t, 2, order.RevisionsUsed)
	assert.LessOrEqual(t, order.RevisionsUsed, order.RevisionsIncluded)
}

func TestSetStatusByClientForbidden(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDelivered, nil)

	// Even a target the client could reach through approve is rejected on
	// the generic endpoint.
	_, err := svc.SetStatus(context.Background(), id, lifecycle.StatusCompleted, clientIdent)
	assert.Equal(t, errorbank.KindForbidden, errKind(t, err))

	order, _ := store.GetByID(context.Background(), id)
	assert.Equal(t, lifecycle.StatusDelivered, order.Status)
	assert.Empty(t, store.history)
}

func TestSetStatusInvalidTransition(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	_, err := svc.SetStatus(context.Background(), id, lifecycle.StatusDelivered, adminIdent)
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindConflict, appErr.Kind())
	assert.Equal(t, "DRAFT", appErr.Details()["from"])
	assert.Equal(t, "DELIVERED", appErr.Details()["to"])
	assert.Empty(t, store.history)
}

func TestSetStatusUnknownTarget(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	_, err := svc.SetStatus(context.Background(), id, "SHIPPED", adminIdent)
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))
}

func TestSetStatusTerminalOrderImmutable(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusCanceled, nil)

	for _, target := range lifecycle.Statuses() {
		_, err := svc.SetStatus(context.Background(), id, target, adminIdent)
		assert.Equal(t, errorbank.KindConflict, errKind(t, err), "target %s", target)
	}
}

func TestRegisterDelivery(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusInProgress, nil)

	delivery, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{
		StorageKey: "deliveries/v1.mp4",
		Filename:   "v1.mp4",
	}, adminIdent)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Version)

	order, _ := store.GetByID(context.Background(), id)
	assert.Equal(t, lifecycle.StatusDelivered, order.Status)

	history, _ := store.History(context.Background(), id)
	require.Len(t, history, 1)
	assert.Equal(t, lifecycle.StatusInProgress, *history[0].FromStatus)
	assert.Equal(t, lifecycle.StatusDelivered, history[0].ToStatus)

	// Re-registering while DELIVERED adds a version, not a history entry.
	second, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{
		StorageKey: "deliveries/v2.mp4",
		Filename:   "v2.mp4",
	}, adminIdent)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	order, _ = store.GetByID(context.Background(), id)
	assert.Equal(t, lifecycle.StatusDelivered, order.Status)
	history, _ = store.History(context.Background(), id)
	assert.Len(t, history, 1)
}

func TestRegisterDeliveryVersionsAreGapless(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusInProgress, func(o *entity.Order) {
		o.RevisionsIncluded = 2
	})

	expected := 1
	deliver := func() {
		d, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{StorageKey: "k", Filename: "f"}, adminIdent)
		require.NoError(t, err)
		require.Equal(t, expected, d.Version)
		expected++
	}

	deliver() // IN_PROGRESS -> DELIVERED, v1
	deliver() // re-delivery, v2
	_, err := svc.RequestRevision(context.Background(), id, RevisionInput{Notes: "cut intro"}, clientIdent)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), id, lifecycle.StatusRevisionInProgress, adminIdent)
	require.NoError(t, err)
	deliver() // REVISION_IN_PROGRESS -> DELIVERED, v3
}

func TestRegisterDeliveryEventsOnlyOnTransition(t *testing.T) {
	svc, store, pub := newPublishingService(t)
	id := seedOrder(store, lifecycle.StatusInProgress, nil)

	_, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{StorageKey: "k", Filename: "v1.mp4"}, adminIdent)
	require.NoError(t, err)

	events := pub.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, EventOrderStatusChanged, events[0].Type)
	assert.Equal(t, lifecycle.StatusDelivered, events[0].Status)
	require.NotNil(t, events[0].FromStatus)
	assert.Equal(t, lifecycle.StatusInProgress, *events[0].FromStatus)

	// Re-delivery keeps the order DELIVERED; no status-change event goes out.
	_, err = svc.RegisterDelivery(context.Background(), id, DeliveryInput{StorageKey: "k", Filename: "v2.mp4"}, adminIdent)
	require.NoError(t, err)
	assert.Len(t, pub.events(t), 1)
}

func TestRegisterDeliveryByClientForbidden(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusInProgress, nil)

	_, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{StorageKey: "k", Filename: "f"}, clientIdent)
	assert.Equal(t, errorbank.KindForbidden, errKind(t, err))
}

func TestRegisterDeliveryOutsideProduction(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusPaid, nil)

	_, err := svc.RegisterDelivery(context.Background(), id, DeliveryInput{StorageKey: "k", Filename: "f"}, adminIdent)
	assert.Equal(t, errorbank.KindConflict, errKind(t, err))
	assert.Empty(t, store.deliveries)
}

func TestSubmitBriefBasicLevel(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	order, err := svc.SubmitBrief(context.Background(), id, BriefInput{
		Want:       "fast cuts, upbeat",
		References: []string{"https://example.com/a"},
	}, clientIdent)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusAwaitingPayment, order.Status)
	assert.Nil(t, order.QuoteRequestedAt)
	assert.Equal(t, "fast cuts, upbeat", order.BriefWant)

	links, _ := store.ReferenceLinks(context.Background(), id)
	require.Len(t, links, 1)
}

func TestSubmitBriefProRoutesThroughQuote(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, func(o *entity.Order) {
		o.EditingLevel = lifecycle.EditingPro
	})

	order, err := svc.SubmitBrief(context.Background(), id, BriefInput{Want: "full rework"}, clientIdent)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusQuoteRequested, order.Status)
	require.NotNil(t, order.QuoteRequestedAt)
	assert.Equal(t, fixedNow, *order.QuoteRequestedAt)
}

func TestSubmitBriefTooManyReferences(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	refs := []string{"a", "b", "c", "d", "e", "f"}
	_, err := svc.SubmitBrief(context.Background(), id, BriefInput{Want: "x", References: refs}, clientIdent)
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))
}

func TestRegisterAssetEnforcesNamespace(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	err := svc.RegisterAsset(context.Background(), id, AssetInput{
		Kind:       entity.AssetVideo,
		StorageKey: "orders/other/raw.mp4",
		Filename:   "raw.mp4",
		MimeType:   "video/mp4",
		SizeBytes:  1024,
	}, clientIdent)
	assert.Equal(t, errorbank.KindBadRequest, errKind(t, err))

	err = svc.RegisterAsset(context.Background(), id, AssetInput{
		Kind:       entity.AssetVideo,
		StorageKey: "orders/" + id.String() + "/raw.mp4",
		Filename:   "raw.mp4",
		MimeType:   "video/mp4",
		SizeBytes:  1024,
	}, clientIdent)
	require.NoError(t, err)
	require.Len(t, store.assets, 1)
}

func TestHistoryWalksTheGraph(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(context.Background(), CreateInput{
		Email:        clientIdent.Email,
		Tier:         lifecycle.TierA,
		Platform:     entity.PlatformTikTok,
		Vibe:         "raw",
		EditingLevel: lifecycle.EditingBasic,
	})
	require.NoError(t, err)
	id := order.ID

	ctx := context.Background()
	_, err = svc.SubmitBrief(ctx, id, BriefInput{Want: "short hook"}, clientIdent)
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, id, systemIdent)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, id, lifecycle.StatusInReview, adminIdent)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, id, lifecycle.StatusInProgress, adminIdent)
	require.NoError(t, err)
	_, err = svc.RegisterDelivery(ctx, id, DeliveryInput{StorageKey: "k", Filename: "v1.mp4"}, adminIdent)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, id, clientIdent)
	require.NoError(t, err)

	history, err := svc.History(ctx, id, adminIdent)
	require.NoError(t, err)
	require.Len(t, history, 7)

	// Newest first; walk backwards and confirm each step follows the table.
	for i := len(history) - 1; i > 0; i-- {
		prev, next := history[i], history[i-1]
		require.NotNil(t, next.FromStatus)
		assert.Equal(t, prev.ToStatus, *next.FromStatus)
		assert.True(t, prev.ToStatus.CanTransitionTo(next.ToStatus))
	}
	assert.Nil(t, history[len(history)-1].FromStatus)
	assert.Equal(t, lifecycle.StatusCompleted, history[0].ToStatus)
}

func TestGetForbiddenForStranger(t *testing.T) {
	svc, store := newTestService(t)
	id := seedOrder(store, lifecycle.StatusDraft, nil)

	_, err := svc.Get(context.Background(), id, Identity{Actor: lifecycle.ActorClient, Email: "nosy@example.com"})
	assert.Equal(t, errorbank.KindForbidden, errKind(t, err))

	_, err = svc.Get(context.Background(), id, adminIdent)
	require.NoError(t, err)
}
