package chatrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GormChatRegistrationRepository implements ports.ChatRegistrationRepository using GORM.
type GormChatRegistrationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

var _ ports.ChatRegistrationRepository = (*GormChatRegistrationRepository)(nil)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id order.ID, aggregate any)
}

func NewGormChatRegistrationRepository(db *gorm.DB, tracker aggregateTracker) *GormChatRegistrationRepository {
	return &GormChatRegistrationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormChatRegistrationRepository) Upsert(ctx context.Context, reg *chat.Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}

	dto := fromDomain(reg)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(reg.ChatID(), reg)
	return nil
}

func (r *GormChatRegistrationRepository) Get(ctx context.Context, chatID order.ID) (*chat.Registration, error) {
	var dto ChatRegistrationDTO
	if err := r.db.WithContext(ctx).First(&dto, "chat_id = ?", chatID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("chatId", chatID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Delete removes the registration. Deleting an unknown chat is not an error.
func (r *GormChatRegistrationRepository) Delete(ctx context.Context, chatID order.ID) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ?", chatID.String()).
		Delete(&ChatRegistrationDTO{}).Error
}

// ResetAll marks both sides of every connected chat offline and returns the
// number of rows it touched.
func (r *GormChatRegistrationRepository) ResetAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&ChatRegistrationDTO{}).
		Where("order_connected OR delivery_connected").
		Updates(map[string]any{
			"order_connected":        false,
			"order_connection_id":    chat.NoConnection,
			"delivery_connected":     false,
			"delivery_connection_id": chat.NoConnection,
		})
	return result.RowsAffected, result.Error
}
