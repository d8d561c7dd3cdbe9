package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/clipdesk/clipdesk/internal/database"
	"github.com/clipdesk/clipdesk/internal/entity"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders if they are missing. Each seeded order gets
// the initial history entry so local data satisfies the append-only audit
// expectation.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()

	samples := []entity.Order{
		{
			ID:                uuid.MustParse("0cbbd9f0-6f11-4cf3-9e1a-6b7a2f6d0001"),
			Email:             "demo-client@clipdesk.dev",
			Tier:              lifecycle.TierA,
			Platform:          entity.PlatformTikTok,
			Vibe:              "fast cuts, high energy",
			EditingLevel:      lifecycle.EditingBasic,
			Status:            lifecycle.StatusDraft,
			PaymentStatus:     lifecycle.PaymentUnpaid,
			RawLimitSeconds:   120,
			RevisionsIncluded: 1,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.MustParse("0cbbd9f0-6f11-4cf3-9e1a-6b7a2f6d0002"),
			Email:             "demo-creator@clipdesk.dev",
			Tier:              lifecycle.TierC,
			Platform:          entity.PlatformYouTube,
			Vibe:              "calm documentary pacing",
			EditingLevel:      lifecycle.EditingPro,
			AddOns:            entity.AddOns{Subtitles: true},
			Status:            lifecycle.StatusDraft,
			PaymentStatus:     lifecycle.PaymentUnpaid,
			RawLimitSeconds:   600,
			RevisionsIncluded: 2,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range samples {
			res, err := tx.NewInsert().Model(&samples[i]).
				On("CONFLICT (id) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return err
			}
			if rows, err := res.RowsAffected(); err == nil && rows == 0 {
				continue
			}

			first := entity.StatusHistory{
				OrderID:   samples[i].ID,
				ToStatus:  lifecycle.StatusDraft,
				Actor:     lifecycle.ActorClient,
				CreatedAt: now,
			}
			if _, err := tx.NewInsert().Model(&first).Exec(ctx); err != nil {
				return err
			}
		}

		if s.logger != nil {
			s.logger.Info("seeded orders", zap.Int("count", len(samples)))
		}
		return nil
	})
}
