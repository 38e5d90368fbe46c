package mailbox

import (
	"testing"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

func TestGetSettingsReturnsDefaults(t *testing.T) {
	mb := newTestMailbox()
	s, err := mb.GetSettings("me")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !s.Imap.Enabled {
		t.Error("expected IMAP enabled by default")
	}
	if len(s.SendAs) != 1 || !s.SendAs[0].IsPrimary {
		t.Fatalf("expected one primary sendAs entry, got %+v", s.SendAs)
	}
}

func TestUpdateVacationRoundTrip(t *testing.T) {
	mb := newTestMailbox()
	want := domain.VacationSettings{Enabled: true, ResponseSubject: "Out of office"}
	got, err := mb.UpdateVacation("me", want)
	if err != nil {
		t.Fatalf("UpdateVacation: %v", err)
	}
	if !got.Enabled || got.ResponseSubject != "Out of office" {
		t.Errorf("UpdateVacation result = %+v", got)
	}
	s, _ := mb.GetSettings("me")
	if !s.Vacation.Enabled {
		t.Error("vacation update did not persist")
	}
}

func TestCreateSendAsConflict(t *testing.T) {
	mb := newTestMailbox()
	if _, err := mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"}); err != nil {
		t.Fatalf("CreateSendAs: %v", err)
	}
	_, err := mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected Conflict for duplicate alias, got %v", err)
	}
}

func TestDeleteSendAsRejectsPrimary(t *testing.T) {
	mb := newTestMailbox()
	s, err := mb.GetSettings("me")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	primary := s.SendAs[0].SendAsEmail
	err = mb.DeleteSendAs("me", primary)
	if !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected InvalidArgument deleting the primary alias, got %v", err)
	}
}

func TestDeleteSendAsRemovesNonPrimary(t *testing.T) {
	mb := newTestMailbox()
	mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})
	if err := mb.DeleteSendAs("me", "alias@example.com"); err != nil {
		t.Fatalf("DeleteSendAs: %v", err)
	}
	if _, err := mb.GetSendAs("me", "alias@example.com"); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Fatalf("expected alias gone, got %v", err)
	}
}

func TestGetSendAsUnknownIsNotFound(t *testing.T) {
	mb := newTestMailbox()
	_, err := mb.GetSendAs("me", "nobody@example.com")
	if !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Fatalf("expected ResourceNotFound, got %v", err)
	}
}

func TestCreateSendAsStartsPendingThenVerifies(t *testing.T) {
	mb := newTestMailbox()
	created, err := mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})
	if err != nil {
		t.Fatalf("CreateSendAs: %v", err)
	}
	if created.VerificationStatus != "pending" {
		t.Fatalf("VerificationStatus = %q, want pending", created.VerificationStatus)
	}
	if err := mb.VerifySendAs("me", "alias@example.com"); err != nil {
		t.Fatalf("VerifySendAs: %v", err)
	}
	got, err := mb.GetSendAs("me", "alias@example.com")
	if err != nil {
		t.Fatalf("GetSendAs: %v", err)
	}
	if got.VerificationStatus != "accepted" {
		t.Fatalf("VerificationStatus after verify = %q, want accepted", got.VerificationStatus)
	}
}

func TestInsertSmimeInfoMintsIDAndSetsDefault(t *testing.T) {
	mb := newTestMailbox()
	mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})

	first, err := mb.InsertSmimeInfo("me", "alias@example.com", domain.SmimeInfo{IssuerCn: "CA One", IsDefault: true})
	if err != nil {
		t.Fatalf("InsertSmimeInfo: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected InsertSmimeInfo to mint an id")
	}
	if !first.IsDefault {
		t.Fatal("expected the first inserted cert to be default")
	}

	second, err := mb.InsertSmimeInfo("me", "alias@example.com", domain.SmimeInfo{IssuerCn: "CA Two", IsDefault: true})
	if err != nil {
		t.Fatalf("InsertSmimeInfo: %v", err)
	}

	list, err := mb.ListSmimeInfo("me", "alias@example.com")
	if err != nil {
		t.Fatalf("ListSmimeInfo: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %+v, want 2 entries", list)
	}
	for _, info := range list {
		if info.ID == first.ID && info.IsDefault {
			t.Error("first cert should no longer be default once the second was inserted as default")
		}
		if info.ID == second.ID && !info.IsDefault {
			t.Error("second cert should be default")
		}
	}
}

func TestSetDefaultSmimeInfoSwitchesDefault(t *testing.T) {
	mb := newTestMailbox()
	mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})
	first, _ := mb.InsertSmimeInfo("me", "alias@example.com", domain.SmimeInfo{IssuerCn: "CA One", IsDefault: true})
	second, _ := mb.InsertSmimeInfo("me", "alias@example.com", domain.SmimeInfo{IssuerCn: "CA Two"})

	if err := mb.SetDefaultSmimeInfo("me", "alias@example.com", second.ID); err != nil {
		t.Fatalf("SetDefaultSmimeInfo: %v", err)
	}
	got1, _ := mb.GetSmimeInfo("me", "alias@example.com", first.ID)
	got2, _ := mb.GetSmimeInfo("me", "alias@example.com", second.ID)
	if got1.IsDefault {
		t.Error("first cert should no longer be default")
	}
	if !got2.IsDefault {
		t.Error("second cert should now be default")
	}
}

func TestDeleteSmimeInfoRemovesEntry(t *testing.T) {
	mb := newTestMailbox()
	mb.CreateSendAs("me", domain.SendAs{SendAsEmail: "alias@example.com"})
	info, _ := mb.InsertSmimeInfo("me", "alias@example.com", domain.SmimeInfo{IssuerCn: "CA One"})

	if err := mb.DeleteSmimeInfo("me", "alias@example.com", info.ID); err != nil {
		t.Fatalf("DeleteSmimeInfo: %v", err)
	}
	if _, err := mb.GetSmimeInfo("me", "alias@example.com", info.ID); !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Fatalf("expected smimeInfo gone, got %v", err)
	}
}

func TestSmimeInfoUnknownSendAsIsNotFound(t *testing.T) {
	mb := newTestMailbox()
	_, err := mb.ListSmimeInfo("me", "nobody@example.com")
	if !apperr.Is(err, apperr.KindResourceNotFound) {
		t.Fatalf("expected ResourceNotFound, got %v", err)
	}
}
