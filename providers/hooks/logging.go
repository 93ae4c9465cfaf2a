package hooks

import (
	"context"

	"github.com/sirupsen/logrus"

	"acl-admin-backend/logger"
)

// LogListener writes every event it receives to the application log.
func LogListener() Listener {
	return ListenerFunc(func(_ context.Context, ev Event) Decision {
		entry := logger.Logger.WithFields(logrus.Fields{
			"stage":    ev.Stage,
			"screen":   ev.Screen,
			"actor_id": ev.ActorID,
			"subjects": ev.SubjectIDs,
		})
		if ev.Outcome != nil && ev.Outcome.Failed {
			entry.WithField("messages", ev.Outcome.Messages).Warn("Lifecycle event failed")
			return Decision{}
		}
		entry.Debug("Lifecycle event")
		return Decision{}
	})
}
