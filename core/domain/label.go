package domain

import "strings"

// LabelType distinguishes system labels (fixed, never deleted, uppercase
// IDs) from user labels (arbitrary, case-preserving).
type LabelType string

const (
	LabelTypeSystem LabelType = "system"
	LabelTypeUser   LabelType = "user"
)

// System label IDs. Spelled uppercase per invariant I6.
const (
	LabelInbox          = "INBOX"
	LabelUnread          = "UNREAD"
	LabelImportant       = "IMPORTANT"
	LabelSent            = "SENT"
	LabelDraft           = "DRAFT"
	LabelTrash           = "TRASH"
	LabelSpam            = "SPAM"
	LabelStarred         = "STARRED"
	LabelCategoryPrimary = "CATEGORY_PERSONAL"
	CategoryPrefix       = "CATEGORY_"
)

// systemLabels is the fixed allow-list of system label IDs (§3.1, §9).
var systemLabels = map[string]struct{}{
	LabelInbox:     {},
	LabelUnread:    {},
	LabelImportant: {},
	LabelSent:      {},
	LabelDraft:     {},
	LabelTrash:     {},
	LabelSpam:      {},
	LabelStarred:   {},
}

// category label IDs recognized for the `category:` predicate and
// `has:userlabels` exclusion set.
var categoryLabels = []string{
	"CATEGORY_PERSONAL",
	"CATEGORY_SOCIAL",
	"CATEGORY_PROMOTIONS",
	"CATEGORY_UPDATES",
	"CATEGORY_FORUMS",
	"CATEGORY_RESERVATIONS",
	"CATEGORY_PURCHASES",
}

func init() {
	for _, c := range categoryLabels {
		systemLabels[c] = struct{}{}
	}
}

// IsSystemLabel reports whether the uppercased id names a system label.
func IsSystemLabel(id string) bool {
	_, ok := systemLabels[strings.ToUpper(id)]
	return ok
}

// CanonicalLabelID returns the ID a label mutation should actually use: the
// uppercase form if it names a system label, the caller's original
// spelling otherwise (I6).
func CanonicalLabelID(id string) string {
	up := strings.ToUpper(id)
	if _, ok := systemLabels[up]; ok {
		return up
	}
	return id
}

// Label is a mailbox label — system or user-defined — with the four
// rollup counters the label/counter manager maintains (I3).
type Label struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Type                   LabelType `json:"type"`
	LabelListVisibility    string    `json:"labelListVisibility"`
	MessageListVisibility  string    `json:"messageListVisibility"`
	MessagesTotal          int       `json:"messagesTotal"`
	MessagesUnread         int       `json:"messagesUnread"`
	ThreadsTotal           int       `json:"threadsTotal"`
	ThreadsUnread          int       `json:"threadsUnread"`
	Color                  string    `json:"color,omitempty"`
}

// NewSystemLabel builds the default entry for one of the fixed system labels.
func NewSystemLabel(id string) *Label {
	return &Label{
		ID:                    id,
		Name:                  id,
		Type:                  LabelTypeSystem,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}
}

// NewUserLabel builds the default entry for a newly referenced user label,
// preserving the caller's original case (I6).
func NewUserLabel(id string) *Label {
	return &Label{
		ID:                    id,
		Name:                  id,
		Type:                  LabelTypeUser,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}
}

// DefaultSystemLabelIDs is the fixed set of labels every freshly created
// user starts with (§4.A ResetDB).
func DefaultSystemLabelIDs() []string {
	return []string{
		LabelInbox, LabelUnread, LabelImportant, LabelSent,
		LabelDraft, LabelTrash, LabelSpam, LabelStarred,
	}
}
