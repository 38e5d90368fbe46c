package mailbox

import (
	"fmt"

	"mailsim/core/domain"
	"mailsim/core/service/label"
	"mailsim/pkg/apperr"
)

// CreateLabel adds a new user label. System label IDs are rejected: they
// already exist and are created implicitly on first reference (§3.3).
func (mb *Mailbox) CreateLabel(userID, name string) (*domain.Label, error) {
	if domain.IsSystemLabel(name) {
		return nil, apperr.InvalidArgument("cannot create a system label")
	}
	var created *domain.Label
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		for _, l := range u.Labels {
			if l.Name == name {
				return apperr.Conflict("label already exists: " + name)
			}
		}
		id := fmt.Sprintf("Label_%d", mb.store.NextCounter("label"))
		l := domain.NewUserLabel(id)
		l.Name = name
		u.Labels[id] = l
		created = l
		return nil
	})
	return created, err
}

// GetLabel returns a label by ID.
func (mb *Mailbox) GetLabel(userID, labelID string) (*domain.Label, error) {
	var l *domain.Label
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		found, ok := u.Labels[domain.CanonicalLabelID(labelID)]
		if !ok {
			return apperr.ResourceNotFound("label", labelID)
		}
		l = found
		return nil
	})
	return l, err
}

// ListLabels returns every label for the user, system and user-defined.
func (mb *Mailbox) ListLabels(userID string) ([]*domain.Label, error) {
	var out []*domain.Label
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		for _, l := range u.Labels {
			out = append(out, l)
		}
		return nil
	})
	return out, err
}

// UpdateLabel sets each mutable field for which a non-empty value is
// supplied; empty arguments leave the field unchanged. System labels
// may have their list/message visibility adjusted but never their name.
func (mb *Mailbox) UpdateLabel(userID, labelID string, name, labelListVisibility, messageListVisibility, color string) (*domain.Label, error) {
	var updated *domain.Label
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		id := domain.CanonicalLabelID(labelID)
		l, ok := u.Labels[id]
		if !ok {
			return apperr.ResourceNotFound("label", labelID)
		}
		if l.Type == domain.LabelTypeUser && name != "" {
			l.Name = name
		}
		if labelListVisibility != "" {
			l.LabelListVisibility = labelListVisibility
		}
		if messageListVisibility != "" {
			l.MessageListVisibility = messageListVisibility
		}
		if color != "" {
			l.Color = color
		}
		updated = l
		return nil
	})
	return updated, err
}

// PatchLabel is identical to UpdateLabel: it only touches fields the
// caller actually supplied (non-empty).
func (mb *Mailbox) PatchLabel(userID, labelID string, name, labelListVisibility, messageListVisibility, color string) (*domain.Label, error) {
	return mb.UpdateLabel(userID, labelID, name, labelListVisibility, messageListVisibility, color)
}

// DeleteLabel removes a user label and strips it from every message and
// thread that referenced it (§3.3), then recomputes counts.
func (mb *Mailbox) DeleteLabel(userID, labelID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		id := domain.CanonicalLabelID(labelID)
		l, ok := u.Labels[id]
		if !ok {
			return apperr.ResourceNotFound("label", labelID)
		}
		if l.Type == domain.LabelTypeSystem {
			return apperr.InvalidArgument("cannot delete a system label")
		}
		for _, m := range u.AllMessages() {
			m.RemoveLabel(id)
		}
		delete(u.Labels, id)
		label.Recompute(u)
		return nil
	})
}
