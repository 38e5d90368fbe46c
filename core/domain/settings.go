package domain

// Settings bundles the per-user nested configuration groups the
// settings.* API surface reads and writes.
type Settings struct {
	Imap           ImapSettings     `json:"imap"`
	Pop            PopSettings      `json:"pop"`
	Vacation       VacationSettings `json:"vacation"`
	Language       LanguageSettings `json:"language"`
	AutoForwarding AutoForwarding   `json:"autoForwarding"`
	SendAs         []SendAs         `json:"sendAs"`
}

// DefaultSettings returns the settings bundle a freshly created user starts
// with: IMAP enabled, POP access disabled, vacation off, autoForwarding
// disabled.
func DefaultSettings(primaryEmail string) Settings {
	return Settings{
		Imap:     ImapSettings{Enabled: true},
		Pop:      PopSettings{AccessWindow: "disabled", Disposition: "leaveInInbox"},
		Vacation: VacationSettings{Enabled: false},
		Language: LanguageSettings{DisplayLanguage: "en"},
		AutoForwarding: AutoForwarding{
			Enabled:    false,
			Disposition: "leaveInInbox",
		},
		SendAs: []SendAs{{
			SendAsEmail:    primaryEmail,
			DisplayName:    primaryEmail,
			IsPrimary:      true,
			IsDefault:      true,
			VerificationStatus: "accepted",
		}},
	}
}

// ImapSettings mirrors the Gmail settings.imap resource.
type ImapSettings struct {
	Enabled            bool   `json:"enabled"`
	AutoExpunge        bool   `json:"autoExpunge,omitempty"`
	ExpungeBehavior    string `json:"expungeBehavior,omitempty"`
	MaxFolderSize      int64  `json:"maxFolderSize,omitempty"`
}

// PopSettings mirrors the Gmail settings.pop resource.
type PopSettings struct {
	AccessWindow string `json:"accessWindow"`
	Disposition  string `json:"disposition"`
}

// VacationSettings mirrors the Gmail settings.vacation resource.
type VacationSettings struct {
	Enabled             bool   `json:"enabled"`
	ResponseSubject     string `json:"responseSubject,omitempty"`
	ResponseBodyPlain   string `json:"responseBodyPlainText,omitempty"`
	RestrictToContacts  bool   `json:"restrictToContacts,omitempty"`
	RestrictToDomain    bool   `json:"restrictToDomain,omitempty"`
	StartTime           string `json:"startTime,omitempty"`
	EndTime             string `json:"endTime,omitempty"`
}

// LanguageSettings mirrors settings.language.
type LanguageSettings struct {
	DisplayLanguage string `json:"displayLanguage"`
}

// AutoForwarding mirrors settings.autoForwarding.
type AutoForwarding struct {
	Enabled      bool   `json:"enabled"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Disposition  string `json:"disposition"`
}

// SendAs mirrors one entry of settings.sendAs, including its optional
// S/MIME configuration.
type SendAs struct {
	SendAsEmail        string      `json:"sendAsEmail"`
	DisplayName        string      `json:"displayName"`
	ReplyToAddress     string      `json:"replyToAddress,omitempty"`
	Signature          string      `json:"signature,omitempty"`
	IsPrimary          bool        `json:"isPrimary,omitempty"`
	IsDefault          bool        `json:"isDefault,omitempty"`
	VerificationStatus string      `json:"verificationStatus,omitempty"`
	SmimeInfo          []SmimeInfo `json:"smimeInfo,omitempty"`
}

// SmimeInfo mirrors a settings.sendAs.smimeInfo entry.
type SmimeInfo struct {
	ID          string `json:"id"`
	IssuerCn    string `json:"issuerCn,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
	Expiration  string `json:"expiration,omitempty"`
	EncryptedKeyPassword string `json:"-"`
}

// Watch is a client-registered push-notification subscription. The
// simulator never delivers notifications; it only stores the config.
type Watch struct {
	ID            string   `json:"id,omitempty"`
	TopicName     string   `json:"topicName,omitempty"`
	LabelIds      []string `json:"labelIds,omitempty"`
	LabelFilterBehavior string `json:"labelFilterBehavior,omitempty"`
	Expiration    string   `json:"expiration,omitempty"`
}
