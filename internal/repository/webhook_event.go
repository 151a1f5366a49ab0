package repository

import (
	"context"
	"time"

	"paystack-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, tx *gorm.DB, event string, gatewayID int64, reference string) (bool, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, event *model.WebhookEvent) error
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{db: db}
}

func (r *webhookEventRepoImpl) Exists(ctx context.Context, tx *gorm.DB, event string, gatewayID int64, reference string) (bool, error) {
	var count int64
	err := conn(ctx, r.db, tx).Model(&model.WebhookEvent{}).
		Where("event = ? AND gateway_id = ? AND reference = ?", event, gatewayID, reference).
		Count(&count).Error

	return count > 0, err
}

// MarkProcessed records the delivery; a redelivery of the same event is a
// no-op.
func (r *webhookEventRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, event *model.WebhookEvent) error {
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = time.Now()
	}

	return conn(ctx, r.db, tx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event).Error
}
