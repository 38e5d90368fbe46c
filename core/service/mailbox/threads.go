package mailbox

import (
	"mailsim/core/domain"
	"mailsim/core/service/label"
	"mailsim/core/service/search"
	"mailsim/pkg/apperr"
)

// GetThread returns a thread and its messages in thread order.
func (mb *Mailbox) GetThread(userID, threadID string) (*domain.Thread, []*domain.Message, error) {
	var t *domain.Thread
	var msgs []*domain.Message
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		th, ok := u.Threads[threadID]
		if !ok {
			return apperr.ResourceNotFound("thread", threadID)
		}
		t = th
		for _, id := range th.MessageIds {
			if m, ok := u.Messages[id]; ok {
				msgs = append(msgs, m)
			}
		}
		return nil
	})
	return t, msgs, err
}

// ListThreads runs the message search and folds results into distinct
// thread IDs, preserving first-seen order.
func (mb *Mailbox) ListThreads(userID, q string, labelIds []string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*search.Result, error) {
	var result *search.Result
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		r, err := search.ListMessages(u, q, labelIds, includeSpamTrash, maxResults, pageToken, tokenBudget)
		if err != nil {
			return err
		}
		seen := map[string]struct{}{}
		var ids []string
		for _, msgID := range r.IDs {
			m, ok := u.Messages[msgID]
			if !ok {
				continue
			}
			if _, dup := seen[m.ThreadID]; dup {
				continue
			}
			seen[m.ThreadID] = struct{}{}
			ids = append(ids, m.ThreadID)
		}
		result = &search.Result{IDs: ids, NextPageToken: r.NextPageToken}
		return nil
	})
	return result, err
}

// ModifyThread applies a label add/remove set to every message in a thread.
func (mb *Mailbox) ModifyThread(userID, threadID string, addLabelIds, removeLabelIds []string) (*domain.Thread, error) {
	var t *domain.Thread
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		th, ok := u.Threads[threadID]
		if !ok {
			return apperr.ResourceNotFound("thread", threadID)
		}
		for _, msgID := range th.MessageIds {
			m, ok := u.Messages[msgID]
			if !ok {
				continue
			}
			for _, id := range addLabelIds {
				ensureAndAdd(u, m, id)
			}
			for _, id := range removeLabelIds {
				m.RemoveLabel(domain.CanonicalLabelID(id))
			}
			m.IsRead = !m.HasLabel(domain.LabelUnread)
			appendHistory(mb.store, u, domain.HistoryLabelAdded, msgID, addLabelIds)
		}
		label.Recompute(u)
		t = th
		return nil
	})
	return t, err
}

// TrashThread adds TRASH to every message in the thread.
func (mb *Mailbox) TrashThread(userID, threadID string) (*domain.Thread, error) {
	return mb.ModifyThread(userID, threadID, []string{domain.LabelTrash}, nil)
}

// UntrashThread removes TRASH from every message in the thread.
func (mb *Mailbox) UntrashThread(userID, threadID string) (*domain.Thread, error) {
	return mb.ModifyThread(userID, threadID, nil, []string{domain.LabelTrash})
}

// DeleteThread hard-deletes every message in a thread, then the thread
// itself.
func (mb *Mailbox) DeleteThread(userID, threadID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		th, ok := u.Threads[threadID]
		if !ok {
			return apperr.ResourceNotFound("thread", threadID)
		}
		for _, msgID := range append([]string{}, th.MessageIds...) {
			if m, ok := u.Messages[msgID]; ok {
				appendHistory(mb.store, u, domain.HistoryMessageDeleted, msgID, m.LabelSlice())
				delete(u.Messages, msgID)
			}
		}
		delete(u.Threads, threadID)
		u.Profile.MessagesTotal = len(u.Messages)
		u.Profile.ThreadsTotal = len(u.Threads)
		label.Recompute(u)
		return nil
	})
}
