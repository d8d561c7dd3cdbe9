package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/clipdesk/clipdesk/internal/entity"
	repo "github.com/clipdesk/clipdesk/internal/repository/order"
)

// fakeStore is an in-memory repo.Store with transactional semantics:
// mutations made inside WithOrder commit only when the callback succeeds.
type fakeStore struct {
	orders     map[uuid.UUID]*entity.Order
	history    []entity.StatusHistory
	deliveries []entity.Delivery
	messages   []entity.Message
	assets     []entity.Asset
	links      map[uuid.UUID][]entity.ReferenceLink
}

var _ repo.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[uuid.UUID]*entity.Order),
		links:  make(map[uuid.UUID][]entity.ReferenceLink),
	}
}

func (f *fakeStore) put(order *entity.Order) {
	cp := *order
	f.orders[order.ID] = &cp
}

func (f *fakeStore) Create(_ context.Context, order *entity.Order, first *entity.StatusHistory) error {
	f.put(order)
	if first != nil {
		first.OrderID = order.ID
		first.ID = int64(len(f.history) + 1)
		f.history = append(f.history, *first)
	}
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeStore) ListByEmail(_ context.Context, email string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		if o.Email == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) WithOrder(ctx context.Context, id uuid.UUID, fn repo.TxFunc) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	working := *order
	tx := &fakeTx{store: f}
	if err := fn(ctx, tx, &working); err != nil {
		return nil, err
	}
	tx.commit()
	f.orders[id] = &working
	cp := working
	return &cp, nil
}

func (f *fakeStore) History(_ context.Context, id uuid.UUID) ([]entity.StatusHistory, error) {
	var out []entity.StatusHistory
	for i := len(f.history) - 1; i >= 0; i-- {
		if f.history[i].OrderID == id {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Deliveries(_ context.Context, id uuid.UUID) ([]entity.Delivery, error) {
	var out []entity.Delivery
	for i := len(f.deliveries) - 1; i >= 0; i-- {
		if f.deliveries[i].OrderID == id {
			out = append(out, f.deliveries[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Messages(_ context.Context, id uuid.UUID) ([]entity.Message, error) {
	var out []entity.Message
	for _, m := range f.messages {
		if m.OrderID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertMessage(_ context.Context, msg *entity.Message) error {
	msg.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) InsertAsset(_ context.Context, asset *entity.Asset) error {
	asset.ID = int64(len(f.assets) + 1)
	f.assets = append(f.assets, *asset)
	return nil
}

func (f *fakeStore) ReplaceReferenceLinks(_ context.Context, id uuid.UUID, urls []string) error {
	links := make([]entity.ReferenceLink, 0, len(urls))
	for i, url := range urls {
		links = append(links, entity.ReferenceLink{OrderID: id, Position: i, URL: url})
	}
	f.links[id] = links
	return nil
}

func (f *fakeStore) ReferenceLinks(_ context.Context, id uuid.UUID) ([]entity.ReferenceLink, error) {
	return f.links[id], nil
}

// fakeTx buffers transactional writes until commit.
type fakeTx struct {
	store      *fakeStore
	history    []entity.StatusHistory
	messages   []entity.Message
	deliveries []entity.Delivery
}

var _ repo.Tx = (*fakeTx)(nil)

func (t *fakeTx) AppendHistory(_ context.Context, entry *entity.StatusHistory) error {
	entry.ID = int64(len(t.store.history) + len(t.history) + 1)
	t.history = append(t.history, *entry)
	return nil
}

func (t *fakeTx) InsertMessage(_ context.Context, msg *entity.Message) error {
	msg.ID = int64(len(t.store.messages) + len(t.messages) + 1)
	t.messages = append(t.messages, *msg)
	return nil
}

func (t *fakeTx) InsertDelivery(_ context.Context, delivery *entity.Delivery) error {
	max := 0
	for _, d := range t.store.deliveries {
		if d.OrderID == delivery.OrderID && d.Version > max {
			max = d.Version
		}
	}
	for _, d := range t.deliveries {
		if d.OrderID == delivery.OrderID && d.Version > max {
			max = d.Version
		}
	}
	delivery.Version = max + 1
	t.deliveries = append(t.deliveries, *delivery)
	return nil
}

func (t *fakeTx) commit() {
	t.store.history = append(t.store.history, t.history...)
	t.store.messages = append(t.store.messages, t.messages...)
	t.store.deliveries = append(t.store.deliveries, t.deliveries...)
}
