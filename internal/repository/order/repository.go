package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/clipdesk/clipdesk/internal/database"
	"github.com/clipdesk/clipdesk/internal/entity"
)

var repoTracer = otel.Tracer("github.com/clipdesk/clipdesk/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Tx exposes the writes that may join an order mutation transaction. Every
// method runs against the same transaction that holds the order row lock, so
// status change, counter updates, history append, and associated inserts are
// one atomic unit.
type Tx interface {
	AppendHistory(ctx context.Context, entry *entity.StatusHistory) error
	InsertMessage(ctx context.Context, msg *entity.Message) error
	InsertDelivery(ctx context.Context, delivery *entity.Delivery) error
}

// TxFunc mutates a locked order inside a transaction. Returning an error
// rolls the whole unit back.
type TxFunc func(ctx context.Context, tx Tx, order *entity.Order) error

// Store is the persistence surface the order service depends on.
type Store interface {
	Create(ctx context.Context, order *entity.Order, first *entity.StatusHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	ListByEmail(ctx context.Context, email string) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	WithOrder(ctx context.Context, id uuid.UUID, fn TxFunc) (*entity.Order, error)
	History(ctx context.Context, id uuid.UUID) ([]entity.StatusHistory, error)
	Deliveries(ctx context.Context, id uuid.UUID) ([]entity.Delivery, error)
	Messages(ctx context.Context, id uuid.UUID) ([]entity.Message, error)
	InsertMessage(ctx context.Context, msg *entity.Message) error
	InsertAsset(ctx context.Context, asset *entity.Asset) error
	ReplaceReferenceLinks(ctx context.Context, id uuid.UUID, urls []string) error
	ReferenceLinks(ctx context.Context, id uuid.UUID) ([]entity.ReferenceLink, error)
}

// Repository encapsulates read/write access for orders and their owned
// collections.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

var _ Store = (*Repository)(nil)

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new order together with its initial history entry.
func (r *Repository) Create(ctx context.Context, order *entity.Order, first *entity.StatusHistory) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.id", order.ID.String())))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		if first != nil {
			first.OrderID = order.ID
			if _, err := tx.NewInsert().Model(first).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// ListByEmail returns the orders owned by a client, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListByEmail")
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Where("email = ?", email).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order, newest first. Admin views only.
func (r *Repository) ListAll(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListAll")
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// WithOrder loads the order under a row lock, hands it to fn, and persists
// the mutated row when fn succeeds. Concurrent mutations of the same order
// serialize on the lock, so check-then-update sequences (quota, delivery
// versions) cannot interleave.
func (r *Repository) WithOrder(ctx context.Context, id uuid.UUID, fn TxFunc) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.WithOrder", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order := new(entity.Order)
	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(order).Where("id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := fn(ctx, &txOps{tx: tx}, order); err != nil {
			return err
		}

		_, err = tx.NewUpdate().Model(order).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction failed")
		}
		return nil, err
	}
	return order, nil
}

// History returns transition records for an order, newest first. The
// monotonic primary key breaks ties between equal timestamps.
func (r *Repository) History(ctx context.Context, id uuid.UUID) ([]entity.StatusHistory, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.History", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var entries []entity.StatusHistory
	err := r.reader.NewSelect().Model(&entries).
		Where("order_id = ?", id).
		Order("created_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return entries, nil
}

// Deliveries returns the delivery versions for an order, newest first.
func (r *Repository) Deliveries(ctx context.Context, id uuid.UUID) ([]entity.Delivery, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Deliveries", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var deliveries []entity.Delivery
	err := r.reader.NewSelect().Model(&deliveries).
		Where("order_id = ?", id).
		Order("version_number DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return deliveries, nil
}

// Messages returns the message thread for an order in posting order.
func (r *Repository) Messages(ctx context.Context, id uuid.UUID) ([]entity.Message, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Messages", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var messages []entity.Message
	err := r.reader.NewSelect().Model(&messages).
		Where("order_id = ?", id).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return messages, nil
}

// InsertMessage appends a message outside of any transition.
func (r *Repository) InsertMessage(ctx context.Context, msg *entity.Message) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.InsertMessage")
	defer span.End()

	_, err := r.writer.NewInsert().Model(msg).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// InsertAsset registers one uploaded source file.
func (r *Repository) InsertAsset(ctx context.Context, asset *entity.Asset) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.InsertAsset")
	defer span.End()

	_, err := r.writer.NewInsert().Model(asset).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// ReplaceReferenceLinks swaps the whole reference list for an order.
func (r *Repository) ReplaceReferenceLinks(ctx context.Context, id uuid.UUID, urls []string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ReplaceReferenceLinks", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.ReferenceLink)(nil)).Where("order_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if len(urls) == 0 {
			return nil
		}
		links := make([]entity.ReferenceLink, 0, len(urls))
		for i, url := range urls {
			links = append(links, entity.ReferenceLink{OrderID: id, Position: i, URL: url})
		}
		_, err := tx.NewInsert().Model(&links).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
	}
	return err
}

// ReferenceLinks returns the reference list for an order in client order.
func (r *Repository) ReferenceLinks(ctx context.Context, id uuid.UUID) ([]entity.ReferenceLink, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ReferenceLinks", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var links []entity.ReferenceLink
	err := r.reader.NewSelect().Model(&links).
		Where("order_id = ?", id).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return links, nil
}

// txOps implements Tx against an open bun transaction.
type txOps struct {
	tx bun.Tx
}

func (t *txOps) AppendHistory(ctx context.Context, entry *entity.StatusHistory) error {
	_, err := t.tx.NewInsert().Model(entry).Exec(ctx)
	return err
}

func (t *txOps) InsertMessage(ctx context.Context, msg *entity.Message) error {
	_, err := t.tx.NewInsert().Model(msg).Exec(ctx)
	return err
}

// InsertDelivery assigns the next gapless version number before inserting.
// The caller holds the order row lock, so max+1 cannot race.
func (t *txOps) InsertDelivery(ctx context.Context, delivery *entity.Delivery) error {
	var current int
	err := t.tx.NewSelect().
		Model((*entity.Delivery)(nil)).
		ColumnExpr("COALESCE(MAX(version_number), 0)").
		Where("order_id = ?", delivery.OrderID).
		Scan(ctx, &current)
	if err != nil {
		return err
	}
	delivery.Version = current + 1
	_, err = t.tx.NewInsert().Model(delivery).Exec(ctx)
	return err
}
