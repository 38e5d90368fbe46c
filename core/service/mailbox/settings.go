package mailbox

import (
	"github.com/google/uuid"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

// GetSettings returns the full settings bundle for a user.
func (mb *Mailbox) GetSettings(userID string) (*domain.Settings, error) {
	var out domain.Settings
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		out = u.Settings
		return nil
	})
	return &out, err
}

// UpdateImap replaces the IMAP settings group.
func (mb *Mailbox) UpdateImap(userID string, s domain.ImapSettings) (*domain.ImapSettings, error) {
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		u.Settings.Imap = s
		return nil
	})
	return &s, err
}

// UpdatePop replaces the POP settings group.
func (mb *Mailbox) UpdatePop(userID string, s domain.PopSettings) (*domain.PopSettings, error) {
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		u.Settings.Pop = s
		return nil
	})
	return &s, err
}

// UpdateVacation replaces the vacation-responder settings group.
func (mb *Mailbox) UpdateVacation(userID string, s domain.VacationSettings) (*domain.VacationSettings, error) {
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		u.Settings.Vacation = s
		return nil
	})
	return &s, err
}

// UpdateLanguage replaces the display-language settings group.
func (mb *Mailbox) UpdateLanguage(userID string, s domain.LanguageSettings) (*domain.LanguageSettings, error) {
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		u.Settings.Language = s
		return nil
	})
	return &s, err
}

// UpdateAutoForwarding replaces the auto-forwarding settings group.
func (mb *Mailbox) UpdateAutoForwarding(userID string, s domain.AutoForwarding) (*domain.AutoForwarding, error) {
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		u.Settings.AutoForwarding = s
		return nil
	})
	return &s, err
}

// ListSendAs returns every send-as alias for a user.
func (mb *Mailbox) ListSendAs(userID string) ([]domain.SendAs, error) {
	var out []domain.SendAs
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		out = u.Settings.SendAs
		return nil
	})
	return out, err
}

// CreateSendAs appends a new send-as alias. A non-primary alias starts
// out unverified; VerifySendAs moves it to "accepted".
func (mb *Mailbox) CreateSendAs(userID string, s domain.SendAs) (*domain.SendAs, error) {
	if !s.IsPrimary {
		s.VerificationStatus = "pending"
	} else {
		s.VerificationStatus = "accepted"
	}
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		for _, existing := range u.Settings.SendAs {
			if existing.SendAsEmail == s.SendAsEmail {
				return apperr.Conflict("sendAs already exists: " + s.SendAsEmail)
			}
		}
		u.Settings.SendAs = append(u.Settings.SendAs, s)
		return nil
	})
	return &s, err
}

// VerifySendAs marks a pending alias as accepted (settings.sendAs.verify).
func (mb *Mailbox) VerifySendAs(userID, sendAsEmail string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		for i := range u.Settings.SendAs {
			if u.Settings.SendAs[i].SendAsEmail == sendAsEmail {
				u.Settings.SendAs[i].VerificationStatus = "accepted"
				return nil
			}
		}
		return apperr.ResourceNotFound("sendAs", sendAsEmail)
	})
}

// GetSendAs returns one send-as alias by email.
func (mb *Mailbox) GetSendAs(userID, sendAsEmail string) (*domain.SendAs, error) {
	var found *domain.SendAs
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		for i := range u.Settings.SendAs {
			if u.Settings.SendAs[i].SendAsEmail == sendAsEmail {
				found = &u.Settings.SendAs[i]
				return nil
			}
		}
		return apperr.ResourceNotFound("sendAs", sendAsEmail)
	})
	return found, err
}

// DeleteSendAs removes a non-primary send-as alias.
func (mb *Mailbox) DeleteSendAs(userID, sendAsEmail string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		for i, s := range u.Settings.SendAs {
			if s.SendAsEmail == sendAsEmail {
				if s.IsPrimary {
					return apperr.InvalidArgument("cannot delete the primary sendAs alias")
				}
				u.Settings.SendAs = append(u.Settings.SendAs[:i], u.Settings.SendAs[i+1:]...)
				return nil
			}
		}
		return apperr.ResourceNotFound("sendAs", sendAsEmail)
	})
}

// ListSmimeInfo returns every S/MIME config registered under sendAsEmail.
func (mb *Mailbox) ListSmimeInfo(userID, sendAsEmail string) ([]domain.SmimeInfo, error) {
	sendAs, err := mb.GetSendAs(userID, sendAsEmail)
	if err != nil {
		return nil, err
	}
	return sendAs.SmimeInfo, nil
}

// GetSmimeInfo returns one S/MIME config by ID.
func (mb *Mailbox) GetSmimeInfo(userID, sendAsEmail, smimeID string) (*domain.SmimeInfo, error) {
	var found *domain.SmimeInfo
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		sa, ok := findSendAs(u, sendAsEmail)
		if !ok {
			return apperr.ResourceNotFound("sendAs", sendAsEmail)
		}
		for i := range sa.SmimeInfo {
			if sa.SmimeInfo[i].ID == smimeID {
				found = &sa.SmimeInfo[i]
				return nil
			}
		}
		return apperr.ResourceNotFound("smimeInfo", smimeID)
	})
	return found, err
}

// InsertSmimeInfo adds a new S/MIME config under sendAsEmail. Its ID is a
// random UUID rather than a counter value, since smimeInfo ids are
// opaque client-facing tokens rather than a listing key.
func (mb *Mailbox) InsertSmimeInfo(userID, sendAsEmail string, info domain.SmimeInfo) (*domain.SmimeInfo, error) {
	info.ID = uuid.NewString()
	err := mb.store.WithUser(userID, func(u *domain.User) error {
		sa, ok := findSendAs(u, sendAsEmail)
		if !ok {
			return apperr.ResourceNotFound("sendAs", sendAsEmail)
		}
		if info.IsDefault {
			clearDefaultSmime(sa)
		}
		sa.SmimeInfo = append(sa.SmimeInfo, info)
		return nil
	})
	return &info, err
}

// SetDefaultSmimeInfo marks smimeID as the default for sendAsEmail,
// clearing the default flag on every other entry.
func (mb *Mailbox) SetDefaultSmimeInfo(userID, sendAsEmail, smimeID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		sa, ok := findSendAs(u, sendAsEmail)
		if !ok {
			return apperr.ResourceNotFound("sendAs", sendAsEmail)
		}
		found := false
		for i := range sa.SmimeInfo {
			sa.SmimeInfo[i].IsDefault = sa.SmimeInfo[i].ID == smimeID
			if sa.SmimeInfo[i].IsDefault {
				found = true
			}
		}
		if !found {
			return apperr.ResourceNotFound("smimeInfo", smimeID)
		}
		return nil
	})
}

// DeleteSmimeInfo removes a single S/MIME config by ID.
func (mb *Mailbox) DeleteSmimeInfo(userID, sendAsEmail, smimeID string) error {
	return mb.store.WithUser(userID, func(u *domain.User) error {
		sa, ok := findSendAs(u, sendAsEmail)
		if !ok {
			return apperr.ResourceNotFound("sendAs", sendAsEmail)
		}
		for i, info := range sa.SmimeInfo {
			if info.ID == smimeID {
				sa.SmimeInfo = append(sa.SmimeInfo[:i], sa.SmimeInfo[i+1:]...)
				return nil
			}
		}
		return apperr.ResourceNotFound("smimeInfo", smimeID)
	})
}

func findSendAs(u *domain.User, sendAsEmail string) (*domain.SendAs, bool) {
	for i := range u.Settings.SendAs {
		if u.Settings.SendAs[i].SendAsEmail == sendAsEmail {
			return &u.Settings.SendAs[i], true
		}
	}
	return nil, false
}

func clearDefaultSmime(sa *domain.SendAs) {
	for i := range sa.SmimeInfo {
		sa.SmimeInfo[i].IsDefault = false
	}
}
