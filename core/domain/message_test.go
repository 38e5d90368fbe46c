package domain

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestMessageLabelSet(t *testing.T) {
	m := &Message{}
	if m.HasLabel(LabelInbox) {
		t.Fatal("fresh message should have no labels")
	}
	m.AddLabel(LabelInbox)
	m.AddLabel(LabelUnread)
	if !m.HasLabel(LabelInbox) || !m.HasLabel(LabelUnread) {
		t.Fatal("expected both labels present after AddLabel")
	}
	m.RemoveLabel(LabelUnread)
	if m.HasLabel(LabelUnread) {
		t.Fatal("expected UNREAD removed")
	}
	labels := m.LabelSlice()
	if len(labels) != 1 || labels[0] != LabelInbox {
		t.Fatalf("LabelSlice() = %v, want [INBOX]", labels)
	}
}

func TestMessageIsUnread(t *testing.T) {
	tests := []struct {
		name   string
		isRead bool
		unread bool
		want   bool
	}{
		{"unread flag, no label", false, false, true},
		{"read flag, unread label", true, true, true},
		{"read flag, no label", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{IsRead: tt.isRead}
			if tt.unread {
				m.AddLabel(LabelUnread)
			}
			if got := m.IsUnread(); got != tt.want {
				t.Errorf("IsUnread() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageMarshalRoundTrip(t *testing.T) {
	m := &Message{
		ID:           "message_1",
		ThreadID:     "thread_1",
		Sender:       "a@example.com",
		Recipient:    "b@example.com",
		Subject:      "hi",
		Body:         "hello",
		InternalDate: "1700000000000",
	}
	m.AddLabel(LabelInbox)
	m.AddLabel(LabelUnread)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var restored Message
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if restored.ID != m.ID || restored.Subject != m.Subject {
		t.Fatalf("round trip mismatch: got %+v", restored)
	}
	got := restored.LabelSlice()
	sort.Strings(got)
	want := []string{LabelInbox, LabelUnread}
	sort.Strings(want)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("LabelSlice() after round trip = %v, want %v", got, want)
	}
}

func TestMessageAttachmentIds(t *testing.T) {
	m := &Message{}
	if ids := m.AttachmentIds(); ids != nil {
		t.Fatalf("expected nil attachment ids for message with no payload, got %v", ids)
	}
}
