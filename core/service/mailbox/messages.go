package mailbox

import (
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/gmail/v1"

	"mailsim/core/domain"
	"mailsim/core/service/label"
	"mailsim/core/service/mime"
	"mailsim/core/service/search"
	"mailsim/pkg/apperr"
)

// SendRequest is the structured-field input shared by Send and Import.
type SendRequest struct {
	Sender      string
	Recipient   string
	Cc          string
	Bcc         string
	Subject     string
	Body        string
	LabelIds    []string
	Attachments []mime.Attachment
	ThreadID    string // optional: append to an existing thread
	Raw         string // optional: build payload from raw MIME instead of fields
}

// Send assembles and stores a new outbound message, assigns id/threadId,
// stamps internalDate=now, adds SENT, and appends a history entry (§4.E).
func (mb *Mailbox) Send(userID string, req SendRequest) (*domain.Message, error) {
	start := time.Now()
	msg, err := mb.create(userID, req, true, false)
	log := mb.log.WithField("user_id", userID).WithDuration(time.Since(start))
	if err != nil {
		log.WithError(err).Warn("send failed")
		return nil, err
	}
	log.WithField("message_id", msg.ID).Info("message sent")
	return msg, nil
}

// Import stores a message like Send but stamps it with the caller's
// internalDate (the current time when internalDate is empty) and never
// adds SENT.
func (mb *Mailbox) Import(userID string, req SendRequest, internalDate string) (*domain.Message, error) {
	return mb.createWithDate(userID, req, false, false, internalDate)
}

// Insert directly writes a message, optionally routing it to TRASH.
func (mb *Mailbox) Insert(userID string, req SendRequest, deleted bool) (*domain.Message, error) {
	return mb.create(userID, req, false, deleted)
}

func (mb *Mailbox) create(userID string, req SendRequest, addSent, deleted bool) (*domain.Message, error) {
	return mb.createWithDate(userID, req, addSent, deleted, "")
}

func (mb *Mailbox) createWithDate(userID string, req SendRequest, addSent, deleted bool, internalDate string) (*domain.Message, error) {
	var created *domain.Message
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		msg, rawAttachments, err := buildMessage(req)
		if err != nil {
			return err
		}
		if internalDate != "" {
			msg.InternalDate = internalDate
		} else {
			msg.InternalDate = nowMillis()
		}

		msg.ID = fmt.Sprintf("message_%d", mb.store.NextCounter("message"))
		msg.AddLabel(domain.LabelUnread)
		for _, l := range req.LabelIds {
			ensureAndAdd(u, msg, l)
		}
		if addSent {
			msg.AddLabel(domain.LabelSent)
		}
		if deleted {
			msg.AddLabel(domain.LabelTrash)
		} else if !addSent {
			msg.AddLabel(domain.LabelInbox)
		}
		putAttachments(mb, req.Attachments, rawAttachments)
		for _, id := range msg.LabelSlice() {
			label.EnsureLabel(u, id)
		}

		threadID := req.ThreadID
		if threadID == "" || u.Threads[threadID] == nil {
			threadID = fmt.Sprintf("thread_%d", mb.store.NextCounter("thread"))
			u.Threads[threadID] = &domain.Thread{ID: threadID}
		}
		msg.ThreadID = threadID
		u.Threads[threadID].AddMessage(msg.ID)
		u.Threads[threadID].Snippet = msg.Snippet

		u.Messages[msg.ID] = msg
		u.Profile.MessagesTotal = len(u.Messages)
		u.Profile.ThreadsTotal = len(u.Threads)
		appendHistory(mb.store, u, domain.HistoryMessageAdded, msg.ID, msg.LabelSlice())

		label.Recompute(u)
		created = msg
		return nil
	})
	return created, err
}

func buildMessage(req SendRequest) (*domain.Message, []mime.ExtractedAttachment, error) {
	if req.Raw != "" {
		parsed, err := mime.ParseRaw(req.Raw)
		if err != nil {
			return nil, nil, err
		}
		msg := &domain.Message{
			Sender:    parsed.From,
			Recipient: parsed.To,
			Cc:        parsed.Cc,
			Bcc:       parsed.Bcc,
			Subject:   parsed.Subject,
			Body:      parsed.BodyText,
			Payload:   parsed.Payload,
			Raw:       req.Raw,
		}
		msg.Snippet = snippetOf(msg.Body)
		return msg, parsed.Attachments, nil
	}

	if req.Sender == "" && req.Recipient == "" && req.Subject == "" && req.Body == "" {
		return nil, nil, apperr.InvalidArgument("message must have at least one field or a raw blob")
	}

	msg := &domain.Message{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Cc:        req.Cc,
		Bcc:       req.Bcc,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	msg.Snippet = snippetOf(msg.Body)
	msg.Payload = &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: msg.Body},
	}
	if len(req.Attachments) > 0 {
		msg.Payload.MimeType = "multipart/mixed"
		parts := []*gmail.MessagePart{{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: msg.Body},
		}}
		for _, att := range req.Attachments {
			id := mime.HashAttachment(att.Data)
			parts = append(parts, &gmail.MessagePart{
				MimeType: att.MimeType,
				Filename: att.Filename,
				Body:     &gmail.MessagePartBody{AttachmentId: id, Size: int64(len(att.Data))},
			})
		}
		msg.Payload.Parts = parts
	}
	return msg, nil, nil
}

// putAttachments inserts both the structured-field attachments (hashed by
// content) and any attachments extracted from a raw MIME blob (already
// assigned an id by mime.ParseRaw) into the global attachment table.
func putAttachments(mb *Mailbox, structured []mime.Attachment, extracted []mime.ExtractedAttachment) {
	for _, att := range structured {
		id := mime.HashAttachment(att.Data)
		mb.store.PutAttachment(&domain.Attachment{ID: id, Filename: att.Filename, MimeType: att.MimeType, Data: att.Data, Size: len(att.Data)})
	}
	for _, att := range extracted {
		mb.store.PutAttachment(&domain.Attachment{ID: att.ID, Filename: att.Filename, MimeType: att.MimeType, Data: att.Data, Size: len(att.Data)})
	}
}

func snippetOf(body string) string {
	const max = 120
	if len(body) <= max {
		return body
	}
	return body[:max]
}

func nowMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func ensureAndAdd(u *domain.User, m *domain.Message, labelID string) {
	l := label.EnsureLabel(u, labelID)
	if l != nil {
		m.AddLabel(l.ID)
	}
}

// Get returns a single message by ID.
func (mb *Mailbox) Get(userID, msgID string) (*domain.Message, error) {
	var msg *domain.Message
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		m, ok := u.Messages[msgID]
		if !ok {
			return apperr.ResourceNotFound("message", msgID)
		}
		msg = m
		return nil
	})
	return msg, err
}

// List implements messages.list via the search engine (§4.D.1).
func (mb *Mailbox) List(userID, q string, labelIds []string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*search.Result, error) {
	var result *search.Result
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		r, err := search.ListMessages(u, q, labelIds, includeSpamTrash, maxResults, pageToken, tokenBudget)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

// Modify applies set-arithmetic label changes to a message (§4.E).
func (mb *Mailbox) Modify(userID, msgID string, addLabelIds, removeLabelIds []string) (*domain.Message, error) {
	start := time.Now()
	var msg *domain.Message
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		m, ok := u.Messages[msgID]
		if !ok {
			return apperr.ResourceNotFound("message", msgID)
		}
		for _, id := range addLabelIds {
			ensureAndAdd(u, m, id)
		}
		for _, id := range removeLabelIds {
			canonical := domain.CanonicalLabelID(id)
			m.RemoveLabel(canonical)
		}
		m.IsRead = !m.HasLabel(domain.LabelUnread)
		label.Recompute(u)
		appendHistory(mb.store, u, domain.HistoryLabelAdded, msgID, addLabelIds)
		msg = m
		return nil
	})
	log := mb.log.WithField("user_id", userID).WithField("message_id", msgID).WithDuration(time.Since(start))
	if err != nil {
		log.WithError(err).Warn("modify failed")
		return nil, err
	}
	log.Debug("message labels modified")
	return msg, nil
}

// Trash adds TRASH to the message's labels. Idempotent.
func (mb *Mailbox) Trash(userID, msgID string) (*domain.Message, error) {
	return mb.Modify(userID, msgID, []string{domain.LabelTrash}, nil)
}

// Untrash removes TRASH from the message's labels. Idempotent.
func (mb *Mailbox) Untrash(userID, msgID string) (*domain.Message, error) {
	return mb.Modify(userID, msgID, nil, []string{domain.LabelTrash})
}

// Delete hard-deletes a message: detaches it from its thread (deleting
// the thread if now empty), updates counters, and makes any
// now-unreferenced attachments eligible for GC.
func (mb *Mailbox) Delete(userID, msgID string) error {
	start := time.Now()
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		m, ok := u.Messages[msgID]
		if !ok {
			return apperr.ResourceNotFound("message", msgID)
		}
		if t, ok := u.Threads[m.ThreadID]; ok {
			t.RemoveMessage(msgID)
			if len(t.MessageIds) == 0 {
				delete(u.Threads, m.ThreadID)
			}
		}
		delete(u.Messages, msgID)
		u.Profile.MessagesTotal = len(u.Messages)
		u.Profile.ThreadsTotal = len(u.Threads)
		appendHistory(mb.store, u, domain.HistoryMessageDeleted, msgID, m.LabelSlice())
		label.Recompute(u)
		return nil
	})
	log := mb.log.WithField("user_id", userID).WithField("message_id", msgID).WithDuration(time.Since(start))
	if err != nil {
		log.WithError(err).Warn("delete failed")
		return err
	}
	log.Info("message deleted")
	return nil
}

// BatchModify applies Modify to every ID in msgIds.
func (mb *Mailbox) BatchModify(userID string, msgIds, addLabelIds, removeLabelIds []string) error {
	for _, id := range msgIds {
		if _, err := mb.Modify(userID, id, addLabelIds, removeLabelIds); err != nil {
			return err
		}
	}
	return nil
}

// BatchDelete applies Delete to every ID in msgIds.
func (mb *Mailbox) BatchDelete(userID string, msgIds []string) error {
	for _, id := range msgIds {
		if err := mb.Delete(userID, id); err != nil {
			return err
		}
	}
	return nil
}

// GetAttachment resolves an attachment referenced by a message part.
func (mb *Mailbox) GetAttachment(userID, msgID, attachmentID string) (*domain.Attachment, error) {
	if _, err := mb.Get(userID, msgID); err != nil {
		return nil, err
	}
	a, ok := mb.store.GetAttachment(attachmentID)
	if !ok {
		return nil, apperr.ResourceNotFound("attachment", attachmentID)
	}
	return a, nil
}
