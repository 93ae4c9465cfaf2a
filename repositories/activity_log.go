package repositories

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"acl-admin-backend/logger"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/hooks"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityLogRepository) ForScreen(ctx context.Context, screen string) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := r.db.WithContext(ctx).Where("screen = ?", screen).Order("id").Find(&logs).Error
	return logs, err
}

// Listener persists after-* lifecycle events. A storage failure is logged
// and never blocks the operation that produced the event.
func (r *ActivityLogRepository) Listener() hooks.Listener {
	return hooks.ListenerFunc(func(ctx context.Context, ev hooks.Event) hooks.Decision {
		ids, err := json.Marshal(ev.SubjectIDs)
		if err != nil {
			logger.Logger.WithError(err).Error("Failed to encode activity subjects")
			return hooks.Decision{}
		}
		payload, err := json.Marshal(ev.Fields)
		if err != nil {
			logger.Logger.WithError(err).Error("Failed to encode activity payload")
			return hooks.Decision{}
		}

		entry := models.ActivityLog{
			Screen:     ev.Screen,
			Action:     string(ev.Stage),
			SubjectIDs: datatypes.JSON(ids),
			Payload:    datatypes.JSON(payload),
			UserID:     actor(ev.ActorID),
			Failed:     ev.Outcome != nil && ev.Outcome.Failed,
		}
		if err := r.Record(ctx, &entry); err != nil {
			logger.Logger.WithError(err).WithField("screen", ev.Screen).Error("Failed to record activity")
		}
		return hooks.Decision{}
	})
}
