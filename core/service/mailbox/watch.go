package mailbox

import (
	"fmt"

	"mailsim/core/domain"
)

// Watch registers a push-notification subscription. The simulator stores
// the config but never delivers notifications (users.watch).
func (mb *Mailbox) Watch(userID string, labelIds []string, labelFilterBehavior, topicName string) (*domain.Watch, error) {
	var w *domain.Watch
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		id := fmt.Sprintf("watch_%d", mb.store.NextCounter("watch"))
		u.Watch = &domain.Watch{
			ID:                  id,
			TopicName:           topicName,
			LabelIds:            labelIds,
			LabelFilterBehavior: labelFilterBehavior,
		}
		w = u.Watch
		return nil
	})
	return w, err
}

// StopWatch cancels any active subscription (users.stop). Idempotent.
func (mb *Mailbox) StopWatch(userID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		u.Watch = nil
		return nil
	})
}
