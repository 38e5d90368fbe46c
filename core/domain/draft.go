package domain

// Draft wraps a Message that has not been sent. The embedded message's own
// ID (Message.ID) is kept distinct from the draft's own ID per the Gmail
// wire format (draftId != messageId).
type Draft struct {
	ID      string   `json:"id"`
	Message *Message `json:"message"`
}
