package store

import (
	"encoding/json"
	"strings"
	"testing"

	"mailsim/core/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.ResetDB()
	s.WithUser("me", func(u *domain.User) error {
		m := &domain.Message{ID: "message_1", Subject: "hi"}
		m.AddLabel(domain.LabelInbox)
		u.Messages["message_1"] = m
		u.Threads["thread_1"] = &domain.Thread{ID: "thread_1", MessageIds: []string{"message_1"}}
		return nil
	})
	s.PutAttachment(&domain.Attachment{ID: "att1", Filename: "a.txt", MimeType: "text/plain", Data: []byte("hello"), Size: 5})
	s.NextCounter("message")

	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored := New()
	if err := restored.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}

	u, err := restored.GetUser("me")
	if err != nil {
		t.Fatalf("GetUser after Load: %v", err)
	}
	if _, ok := u.Messages["message_1"]; !ok {
		t.Fatal("expected message_1 to survive round trip")
	}
	att, ok := restored.GetAttachment("att1")
	if !ok || string(att.Data) != "hello" {
		t.Fatalf("attachment round trip failed: %+v, %v", att, ok)
	}
	if got := restored.NextCounter("message"); got != 2 {
		t.Fatalf("counter after Load = %d, want 2", got)
	}
}

func TestSnapshotWatchRendersEmptyObjectWhenAbsent(t *testing.T) {
	s := New()
	s.ResetDB()
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	users := doc["users"].(map[string]any)
	me := users["me"].(map[string]any)
	watch, ok := me["watch"].(map[string]any)
	if !ok {
		t.Fatalf("watch = %v (%T), want an empty object", me["watch"], me["watch"])
	}
	if len(watch) != 0 {
		t.Fatalf("expected empty watch object, got %v", watch)
	}
	if !strings.Contains(string(data), `"watch": {}`) {
		t.Fatalf("expected literal {} for absent watch in snapshot JSON")
	}
}
