package mailbox

import (
	"fmt"
	"strconv"

	"mailsim/core/domain"
	"mailsim/core/service/store"
)

func appendHistory(s *store.Store, u *domain.User, typ domain.HistoryType, msgID string, labelIds []string) {
	id := fmt.Sprintf("history_%d", s.NextCounter("history"))
	u.History = append(u.History, &domain.HistoryEntry{
		ID:        id,
		Type:      typ,
		MessageID: msgID,
		LabelIds:  labelIds,
	})
	bumpHistoryId(u)
}

// bumpHistoryId increments u's profile historyId, keeping it a
// non-decreasing string of digits (I4).
func bumpHistoryId(u *domain.User) {
	n, err := strconv.Atoi(u.Profile.HistoryId)
	if err != nil {
		n = 0
	}
	n++
	u.Profile.HistoryId = strconv.Itoa(n)
}

// ListHistory returns history entries strictly after startHistoryId
// (entries are numbered from 1 in log order),
// optionally filtered by labelId/historyTypes, implementing
// users.history.list (§6.2). maxResults<=0 means no cap.
func (mb *Mailbox) ListHistory(userID, startHistoryId, labelId string, historyTypes []domain.HistoryType, maxResults int) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	err := mb.store.WithUserRead(userID, func(u *domain.User) error {
		startN := 0
		if startHistoryId != "" {
			if n, err := strconv.Atoi(startHistoryId); err == nil {
				startN = n
			}
		}
		typeSet := make(map[domain.HistoryType]struct{}, len(historyTypes))
		for _, t := range historyTypes {
			typeSet[t] = struct{}{}
		}
		for i, h := range u.History {
			if i+1 <= startN {
				continue
			}
			if len(typeSet) > 0 {
				if _, ok := typeSet[h.Type]; !ok {
					continue
				}
			}
			if labelId != "" && !containsLabel(h.LabelIds, labelId) {
				continue
			}
			out = append(out, h)
			if maxResults > 0 && len(out) >= maxResults {
				break
			}
		}
		return nil
	})
	return out, err
}

func containsLabel(labels []string, want string) bool {
	up := want
	for _, l := range labels {
		if l == up {
			return true
		}
	}
	return false
}
