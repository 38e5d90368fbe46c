package mailbox

import (
	"testing"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

func TestGetThreadReturnsMessagesInOrder(t *testing.T) {
	mb := newTestMailbox()
	m1, _ := mb.Send("me", SendRequest{Subject: "first"})
	m2, _ := mb.Send("me", SendRequest{Subject: "second", ThreadID: m1.ThreadID})

	th, msgs, err := mb.GetThread("me", m1.ThreadID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if th.ID != m1.ThreadID {
		t.Fatalf("thread id = %q, want %q", th.ID, m1.ThreadID)
	}
	if len(msgs) != 2 || msgs[0].ID != m1.ID || msgs[1].ID != m2.ID {
		t.Fatalf("messages = %+v, want [%s, %s] in order", msgs, m1.ID, m2.ID)
	}
}

func TestGetThreadUnknownIsNotFound(t *testing.T) {
	mb := newTestMailbox()
	_, _, err := mb.GetThread("me", "thread_999")
	if !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Fatalf("expected ResourceNotFound, got %v", err)
	}
}

func TestListThreadsDedupsByThreadID(t *testing.T) {
	mb := newTestMailbox()
	m1, _ := mb.Send("me", SendRequest{Subject: "alpha"})
	mb.Send("me", SendRequest{Subject: "alpha followup", ThreadID: m1.ThreadID})
	mb.Send("me", SendRequest{Subject: "beta"})

	r, err := mb.ListThreads("me", "", nil, true, 50, "", 0)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(r.IDs) != 2 {
		t.Fatalf("thread IDs = %v, want 2 distinct threads", r.IDs)
	}
}

func TestModifyThreadAppliesToEveryMessage(t *testing.T) {
	mb := newTestMailbox()
	m1, _ := mb.Send("me", SendRequest{Subject: "first"})
	m2, _ := mb.Send("me", SendRequest{Subject: "second", ThreadID: m1.ThreadID})

	_, err := mb.ModifyThread("me", m1.ThreadID, []string{"IMPORTANT"}, nil)
	if err != nil {
		t.Fatalf("ModifyThread: %v", err)
	}
	got1, _ := mb.Get("me", m1.ID)
	got2, _ := mb.Get("me", m2.ID)
	if !got1.HasLabel("IMPORTANT") || !got2.HasLabel("IMPORTANT") {
		t.Fatal("ModifyThread did not label every message in the thread")
	}
}

func TestTrashUntrashThread(t *testing.T) {
	mb := newTestMailbox()
	m1, _ := mb.Send("me", SendRequest{Subject: "first"})

	if _, err := mb.TrashThread("me", m1.ThreadID); err != nil {
		t.Fatalf("TrashThread: %v", err)
	}
	got, _ := mb.Get("me", m1.ID)
	if !got.HasLabel(domain.LabelTrash) {
		t.Fatal("expected TRASH after TrashThread")
	}

	if _, err := mb.UntrashThread("me", m1.ThreadID); err != nil {
		t.Fatalf("UntrashThread: %v", err)
	}
	got, _ = mb.Get("me", m1.ID)
	if got.HasLabel(domain.LabelTrash) {
		t.Fatal("expected TRASH removed after UntrashThread")
	}
}

func TestDeleteThreadRemovesAllMessages(t *testing.T) {
	mb := newTestMailbox()
	m1, _ := mb.Send("me", SendRequest{Subject: "first"})
	m2, _ := mb.Send("me", SendRequest{Subject: "second", ThreadID: m1.ThreadID})

	if err := mb.DeleteThread("me", m1.ThreadID); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}
	if _, err := mb.Get("me", m1.ID); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Error("m1 should be gone")
	}
	if _, err := mb.Get("me", m2.ID); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Error("m2 should be gone")
	}
	if _, _, err := mb.GetThread("me", m1.ThreadID); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Error("thread should be gone")
	}
}
