package mailbox

import (
	"fmt"
	"time"

	"mailsim/core/domain"
	"mailsim/core/service/label"
	"mailsim/core/service/search"
	"mailsim/pkg/apperr"
)

// CreateDraft builds a new draft from structured fields or a raw blob.
// The embedded message carries DRAFT in its labels (§3.1 Draft).
func (mb *Mailbox) CreateDraft(userID string, req SendRequest) (*domain.Draft, error) {
	var created *domain.Draft
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		msg, rawAttachments, err := buildMessage(req)
		if err != nil {
			return err
		}
		putAttachments(mb, req.Attachments, rawAttachments)
		msg.InternalDate = nowMillis()
		msg.ID = fmt.Sprintf("message_%d", mb.store.NextCounter("message"))
		msg.AddLabel(domain.LabelDraft)
		msg.AddLabel(domain.LabelUnread)
		for _, id := range req.LabelIds {
			ensureAndAdd(u, msg, id)
		}
		for _, id := range msg.LabelSlice() {
			label.EnsureLabel(u, id)
		}

		draftID := fmt.Sprintf("draft_%d", mb.store.NextCounter("draft"))
		d := &domain.Draft{ID: draftID, Message: msg}
		u.Drafts[draftID] = d
		label.Recompute(u)
		created = d
		return nil
	})
	return created, err
}

// UpdateDraft replaces a draft's embedded message fields in place,
// preserving its identity (ID, DRAFT label).
func (mb *Mailbox) UpdateDraft(userID, draftID string, req SendRequest) (*domain.Draft, error) {
	var updated *domain.Draft
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		d, ok := u.Drafts[draftID]
		if !ok {
			return apperr.ResourceNotFound("draft", draftID)
		}
		newMsg, rawAttachments, err := buildMessage(req)
		if err != nil {
			return err
		}
		putAttachments(mb, req.Attachments, rawAttachments)
		newMsg.ID = d.Message.ID
		newMsg.ThreadID = d.Message.ThreadID
		newMsg.InternalDate = d.Message.InternalDate
		newMsg.LabelIds = d.Message.LabelIds
		d.Message = newMsg
		label.Recompute(u)
		updated = d
		return nil
	})
	return updated, err
}

// GetDraft returns a draft by ID.
func (mb *Mailbox) GetDraft(userID, draftID string) (*domain.Draft, error) {
	var d *domain.Draft
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		draft, ok := u.Drafts[draftID]
		if !ok {
			return apperr.ResourceNotFound("draft", draftID)
		}
		d = draft
		return nil
	})
	return d, err
}

// ListDrafts runs the draft-flavored search evaluator (§4.D.1).
func (mb *Mailbox) ListDrafts(userID, q string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*search.Result, error) {
	var result *search.Result
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		r, err := search.ListDrafts(u, q, nil, includeSpamTrash, maxResults, pageToken, tokenBudget)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

// DeleteDraft removes a draft without materializing its message.
func (mb *Mailbox) DeleteDraft(userID, draftID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		if _, ok := u.Drafts[draftID]; !ok {
			return apperr.ResourceNotFound("draft", draftID)
		}
		delete(u.Drafts, draftID)
		label.Recompute(u)
		return nil
	})
}

// SendDraft atomically promotes a draft to a regular message: deletes
// the draft, adds SENT, removes DRAFT (I7).
func (mb *Mailbox) SendDraft(userID, draftID string) (*domain.Message, error) {
	start := time.Now()
	var sent *domain.Message
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		d, ok := u.Drafts[draftID]
		if !ok {
			return apperr.ResourceNotFound("draft", draftID)
		}
		msg := d.Message
		msg.RemoveLabel(domain.LabelDraft)
		msg.AddLabel(domain.LabelSent)
		msg.InternalDate = nowMillis()

		threadID := msg.ThreadID
		if threadID == "" {
			threadID = fmt.Sprintf("thread_%d", mb.store.NextCounter("thread"))
		}
		if u.Threads[threadID] == nil {
			u.Threads[threadID] = &domain.Thread{ID: threadID}
		}
		msg.ThreadID = threadID
		u.Threads[threadID].AddMessage(msg.ID)
		u.Threads[threadID].Snippet = msg.Snippet

		u.Messages[msg.ID] = msg
		delete(u.Drafts, draftID)

		u.Profile.MessagesTotal = len(u.Messages)
		u.Profile.ThreadsTotal = len(u.Threads)
		appendHistory(mb.store, u, domain.HistoryMessageAdded, msg.ID, msg.LabelSlice())
		label.Recompute(u)
		sent = msg
		return nil
	})
	log := mb.log.WithField("user_id", userID).WithField("draft_id", draftID).WithDuration(time.Since(start))
	if err != nil {
		log.WithError(err).Warn("send draft failed")
		return nil, err
	}
	log.WithField("message_id", sent.ID).Info("draft sent")
	return sent, nil
}
