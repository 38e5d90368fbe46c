package domain

// Thread groups messages that share a conversation. MessageIds preserves
// insertion order (oldest first), matching the Gmail API's own ordering.
type Thread struct {
	ID          string   `json:"id"`
	Snippet     string   `json:"snippet"`
	HistoryId   string   `json:"historyId"`
	MessageIds  []string `json:"messageIds"`
}

// AddMessage appends msgID to the thread if not already present.
func (t *Thread) AddMessage(msgID string) {
	for _, id := range t.MessageIds {
		if id == msgID {
			return
		}
	}
	t.MessageIds = append(t.MessageIds, msgID)
}

// RemoveMessage removes msgID from the thread, preserving order.
func (t *Thread) RemoveMessage(msgID string) {
	out := t.MessageIds[:0]
	for _, id := range t.MessageIds {
		if id != msgID {
			out = append(out, id)
		}
	}
	t.MessageIds = out
}
