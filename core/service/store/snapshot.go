package store

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"mailsim/core/domain"
)

// userSnapshot mirrors domain.User for JSON (de)serialization, except
// Watch renders as `{}` rather than `null` when absent, matching §6.1's
// "Watch | {}" shape.
type userSnapshot struct {
	Profile  domain.Profile             `json:"profile"`
	Messages map[string]*domain.Message `json:"messages"`
	Threads  map[string]*domain.Thread  `json:"threads"`
	Drafts   map[string]*domain.Draft   `json:"drafts"`
	Labels   map[string]*domain.Label   `json:"labels"`
	Settings domain.Settings            `json:"settings"`
	History  []*domain.HistoryEntry     `json:"history"`
	Watch    any                        `json:"watch"`
}

// attachmentSnapshot mirrors the global attachment table's on-wire shape
// (§6.1), distinct from domain.Attachment's in-memory field names.
type attachmentSnapshot struct {
	AttachmentId string `json:"attachmentId"`
	Data         string `json:"data"`
	FileSize     int    `json:"fileSize"`
	MimeType     string `json:"mimeType"`
	Filename     string `json:"filename"`
}

// snapshotDoc is the full store snapshot document (§6.1).
type snapshotDoc struct {
	Users       map[string]userSnapshot       `json:"users"`
	Counters    map[string]int64              `json:"counters"`
	Attachments map[string]attachmentSnapshot `json:"attachments"`
}

// Snapshot serializes the entire store to the §6.1 JSON shape. It
// acquires a read lock, serializes, and releases (§5 suspension rule).
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := snapshotDoc{
		Users:       make(map[string]userSnapshot, len(s.users)),
		Counters:    s.counters.Snapshot(),
		Attachments: make(map[string]attachmentSnapshot, len(s.attachments)),
	}
	for id, u := range s.users {
		var watch any = map[string]any{}
		if u.Watch != nil {
			watch = u.Watch
		}
		doc.Users[id] = userSnapshot{
			Profile:  u.Profile,
			Messages: u.Messages,
			Threads:  u.Threads,
			Drafts:   u.Drafts,
			Labels:   u.Labels,
			Settings: u.Settings,
			History:  u.History,
			Watch:    watch,
		}
	}
	for id, a := range s.attachments {
		doc.Attachments[id] = attachmentSnapshot{
			AttachmentId: a.ID,
			Data:         base64.StdEncoding.EncodeToString(a.Data),
			FileSize:     a.Size,
			MimeType:     a.MimeType,
			Filename:     a.Filename,
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load replaces the store's entire state from a §6.1 snapshot document.
func (s *Store) Load(data []byte) error {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*domain.User, len(doc.Users))
	s.emailIndex = make(map[string]string, len(doc.Users))
	s.attachments = make(map[string]*domain.Attachment, len(doc.Attachments))

	for id, us := range doc.Users {
		u := &domain.User{
			PrimaryID: id,
			Profile:   us.Profile,
			Messages:  us.Messages,
			Threads:   us.Threads,
			Drafts:    us.Drafts,
			Labels:    us.Labels,
			Settings:  us.Settings,
			History:   us.History,
		}
		if u.Messages == nil {
			u.Messages = make(map[string]*domain.Message)
		}
		if u.Threads == nil {
			u.Threads = make(map[string]*domain.Thread)
		}
		if u.Drafts == nil {
			u.Drafts = make(map[string]*domain.Draft)
		}
		if u.Labels == nil {
			u.Labels = make(map[string]*domain.Label)
		}
		if w, ok := reloadWatch(us.Watch); ok {
			u.Watch = w
		}
		s.users[id] = u
		if u.Profile.EmailAddress != "" {
			s.emailIndex[strings.ToLower(u.Profile.EmailAddress)] = id
		}
	}
	for id, as := range doc.Attachments {
		raw, err := base64.StdEncoding.DecodeString(as.Data)
		if err != nil {
			return err
		}
		s.attachments[id] = &domain.Attachment{
			ID:       as.AttachmentId,
			Filename: as.Filename,
			MimeType: as.MimeType,
			Data:     raw,
			Size:     as.FileSize,
		}
	}
	s.counters.Restore(doc.Counters)
	return nil
}

// reloadWatch re-decodes the loosely-typed `watch` field (already
// unmarshaled into map[string]any by the generic Unmarshal above) into a
// *domain.Watch, when it carries any content.
func reloadWatch(raw any) (*domain.Watch, bool) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, false
	}
	var w domain.Watch
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, false
	}
	return &w, true
}
