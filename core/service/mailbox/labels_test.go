package mailbox

import (
	"testing"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

func TestCreateLabelRejectsSystemName(t *testing.T) {
	mb := newTestMailbox()
	_, err := mb.CreateLabel("me", "INBOX")
	if !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected InvalidArgument for a system label name, got %v", err)
	}
}

func TestCreateLabelConflict(t *testing.T) {
	mb := newTestMailbox()
	if _, err := mb.CreateLabel("me", "Work"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	_, err := mb.CreateLabel("me", "Work")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected Conflict on duplicate label name, got %v", err)
	}
}

func TestUpdateLabelCannotRenameSystemLabel(t *testing.T) {
	mb := newTestMailbox()
	updated, err := mb.UpdateLabel("me", domain.LabelInbox, "NotInbox", "", "", "")
	if err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}
	if updated.Name == "NotInbox" {
		t.Error("system label name should not change")
	}
}

func TestUpdateLabelRenamesUserLabel(t *testing.T) {
	mb := newTestMailbox()
	l, _ := mb.CreateLabel("me", "Old Name")
	updated, err := mb.UpdateLabel("me", l.ID, "New Name", "", "", "")
	if err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("Name = %q, want New Name", updated.Name)
	}
}

func TestDeleteLabelStripsFromMessages(t *testing.T) {
	mb := newTestMailbox()
	l, _ := mb.CreateLabel("me", "Project")
	msg, _ := mb.Send("me", SendRequest{Subject: "tagged", LabelIds: []string{l.ID}})
	if !msg.HasLabel(l.ID) {
		t.Fatalf("message missing newly added label before delete")
	}

	if err := mb.DeleteLabel("me", l.ID); err != nil {
		t.Fatalf("DeleteLabel: %v", err)
	}

	got, err := mb.Get("me", msg.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.HasLabel(l.ID) {
		t.Error("expected label stripped from message after DeleteLabel")
	}
	if _, err := mb.GetLabel("me", l.ID); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Error("expected label gone after DeleteLabel")
	}
}

func TestDeleteLabelRejectsSystemLabel(t *testing.T) {
	mb := newTestMailbox()
	err := mb.DeleteLabel("me", domain.LabelInbox)
	if !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected InvalidArgument deleting a system label, got %v", err)
	}
}

func TestListLabelsIncludesSystemLabels(t *testing.T) {
	mb := newTestMailbox()
	labels, err := mb.ListLabels("me")
	if err != nil {
		t.Fatalf("ListLabels: %v", err)
	}
	if len(labels) == 0 {
		t.Fatal("expected seeded system labels to be present")
	}
}
