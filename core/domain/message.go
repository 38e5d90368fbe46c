// Package domain holds the mailbox simulator's core entities: users,
// messages, threads, drafts, labels, attachments and settings.
package domain

import (
	"encoding/json"
	"sort"

	"google.golang.org/api/gmail/v1"
)

// Message is a single mail item. LabelIds carries set semantics — callers
// must not rely on iteration order. Payload reuses the Gmail API's own
// MIME-tree representation so the simulator stays wire-compatible with the
// real API surface it stands in for.
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId"`
	LabelIds     map[string]struct{} `json:"-"`

	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Cc        string `json:"cc,omitempty"`
	Bcc       string `json:"bcc,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Snippet   string `json:"snippet"`

	// InternalDate is epoch milliseconds, stored as a decimal string per spec.
	InternalDate string `json:"internalDate"`
	IsRead       bool   `json:"isRead"`

	Payload *gmail.MessagePart `json:"payload,omitempty"`

	// Raw is the base64url-encoded MIME form, when the message was created
	// from or exported to raw form.
	Raw string `json:"raw,omitempty"`
}

// MessageJSON is the on-disk/snapshot shape of Message, where LabelIds is
// serialized as a sorted slice instead of a set.
type MessageJSON struct {
	ID           string              `json:"id"`
	ThreadID     string              `json:"threadId"`
	LabelIds     []string            `json:"labelIds"`
	Sender       string              `json:"sender"`
	Recipient    string              `json:"recipient"`
	Cc           string              `json:"cc,omitempty"`
	Bcc          string              `json:"bcc,omitempty"`
	Subject      string              `json:"subject"`
	Body         string              `json:"body"`
	Snippet      string              `json:"snippet"`
	InternalDate string              `json:"internalDate"`
	IsRead       bool                `json:"isRead"`
	Payload      *gmail.MessagePart  `json:"payload,omitempty"`
	Raw          string              `json:"raw,omitempty"`
}

// MarshalJSON renders the message in snapshot form, with labelIds as a
// sorted slice.
func (m *Message) MarshalJSON() ([]byte, error) {
	labels := m.LabelSlice()
	sort.Strings(labels)
	return json.Marshal(MessageJSON{
		ID:           m.ID,
		ThreadID:     m.ThreadID,
		LabelIds:     labels,
		Sender:       m.Sender,
		Recipient:    m.Recipient,
		Cc:           m.Cc,
		Bcc:          m.Bcc,
		Subject:      m.Subject,
		Body:         m.Body,
		Snippet:      m.Snippet,
		InternalDate: m.InternalDate,
		IsRead:       m.IsRead,
		Payload:      m.Payload,
		Raw:          m.Raw,
	})
}

// UnmarshalJSON restores a message from snapshot form.
func (m *Message) UnmarshalJSON(data []byte) error {
	var mj MessageJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	m.ID = mj.ID
	m.ThreadID = mj.ThreadID
	m.LabelIds = make(map[string]struct{}, len(mj.LabelIds))
	for _, id := range mj.LabelIds {
		m.LabelIds[id] = struct{}{}
	}
	m.Sender = mj.Sender
	m.Recipient = mj.Recipient
	m.Cc = mj.Cc
	m.Bcc = mj.Bcc
	m.Subject = mj.Subject
	m.Body = mj.Body
	m.Snippet = mj.Snippet
	m.InternalDate = mj.InternalDate
	m.IsRead = mj.IsRead
	m.Payload = mj.Payload
	m.Raw = mj.Raw
	return nil
}

// HasLabel reports whether id (already uppercased by the caller for system
// labels) is present on the message.
func (m *Message) HasLabel(id string) bool {
	_, ok := m.LabelIds[id]
	return ok
}

// AddLabel adds id to the message's label set, creating the set if needed.
func (m *Message) AddLabel(id string) {
	if m.LabelIds == nil {
		m.LabelIds = make(map[string]struct{})
	}
	m.LabelIds[id] = struct{}{}
}

// RemoveLabel removes id from the message's label set. No-op if absent.
func (m *Message) RemoveLabel(id string) {
	delete(m.LabelIds, id)
}

// LabelSlice returns the message's labels as a slice, in no particular order.
func (m *Message) LabelSlice() []string {
	out := make([]string, 0, len(m.LabelIds))
	for id := range m.LabelIds {
		out = append(out, id)
	}
	return out
}

// IsUnread reports whether the message should count as unread under I3/I7:
// either the persisted isRead flag says so or the UNREAD label is present.
// Mutation paths must keep the two synchronized (see SPEC_FULL.md Open
// Question resolutions).
func (m *Message) IsUnread() bool {
	return !m.IsRead || m.HasLabel(LabelUnread)
}

// Attachments walks the payload tree and returns every part carrying an
// attachment reference (non-empty filename, regardless of inline data vs
// attachmentId).
func (m *Message) Attachments() []*gmail.MessagePart {
	if m.Payload == nil {
		return nil
	}
	var out []*gmail.MessagePart
	var walk func(p *gmail.MessagePart)
	walk = func(p *gmail.MessagePart) {
		if p == nil {
			return
		}
		if p.Filename != "" {
			out = append(out, p)
		}
		for _, child := range p.Parts {
			walk(child)
		}
	}
	walk(m.Payload)
	return out
}

// AttachmentIds returns every attachmentId referenced anywhere in the
// message's payload tree (invariant I5).
func (m *Message) AttachmentIds() []string {
	if m.Payload == nil {
		return nil
	}
	var ids []string
	var walk func(p *gmail.MessagePart)
	walk = func(p *gmail.MessagePart) {
		if p == nil {
			return
		}
		if p.Body != nil && p.Body.AttachmentId != "" {
			ids = append(ids, p.Body.AttachmentId)
		}
		for _, child := range p.Parts {
			walk(child)
		}
	}
	walk(m.Payload)
	return ids
}
