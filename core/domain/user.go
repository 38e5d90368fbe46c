package domain

// Profile is the small summary resource returned by users.getProfile.
type Profile struct {
	EmailAddress   string `json:"emailAddress"`
	MessagesTotal  int    `json:"messagesTotal"`
	ThreadsTotal   int    `json:"threadsTotal"`
	HistoryId      string `json:"historyId"`
}

// User is a single tenant's complete mailbox state (§3.1). PrimaryID is
// the resolved, canonical key under which the user is stored in the
// Store's top-level map; it is also a member of the struct so callers
// that only hold a *User can still report it.
type User struct {
	PrimaryID string `json:"-"`

	Profile  Profile                 `json:"profile"`
	Messages map[string]*Message     `json:"messages"`
	Threads  map[string]*Thread      `json:"threads"`
	Drafts   map[string]*Draft       `json:"drafts"`
	Labels   map[string]*Label       `json:"labels"`
	Settings Settings                `json:"settings"`
	History  []*HistoryEntry         `json:"history"`
	Watch    *Watch                  `json:"watch,omitempty"`
}

// NewUser builds a freshly provisioned user with the standard system
// labels and default settings (§4.A ResetDB / CreateUser).
func NewUser(id, email string) *User {
	u := &User{
		PrimaryID: id,
		Profile: Profile{
			EmailAddress: email,
			HistoryId:    "1",
		},
		Messages: make(map[string]*Message),
		Threads:  make(map[string]*Thread),
		Drafts:   make(map[string]*Draft),
		Labels:   make(map[string]*Label),
		Settings: DefaultSettings(email),
		History:  nil,
	}
	for _, id := range DefaultSystemLabelIDs() {
		u.Labels[id] = NewSystemLabel(id)
	}
	return u
}

// AllMessages returns every message the user owns directly plus every
// draft's embedded message, the unit the label/counter manager and the
// verifier both operate over (§3.2 I3, §4.C step 2-3).
func (u *User) AllMessages() []*Message {
	out := make([]*Message, 0, len(u.Messages)+len(u.Drafts))
	for _, m := range u.Messages {
		out = append(out, m)
	}
	for _, d := range u.Drafts {
		if d.Message != nil {
			out = append(out, d.Message)
		}
	}
	return out
}
