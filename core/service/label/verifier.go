package label

import (
	"strings"

	"mailsim/core/domain"
	"mailsim/core/service/store"
)

// FieldDiff records a mismatch between a recomputed and a stored count.
type FieldDiff struct {
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
}

// counts is the four rollup fields I3 tracks for one label.
type counts struct {
	messagesTotal  int
	messagesUnread int
	threadsTotal   int
	threadsUnread  int
}

// UserReport is one user's verification results: per-label field diffs
// plus the profile-level messagesTotal/threadsTotal diffs.
type UserReport struct {
	Labels  map[string]map[string]FieldDiff `json:"labels"`
	Profile map[string]FieldDiff            `json:"profile"`
}

// Report is the result of one verifier pass across every user.
type Report struct {
	Users          map[string]UserReport `json:"users"`
	HasDifferences bool                  `json:"hasDifferences"`
}

// VerifyAndOptionallyFix recomputes every label's and profile's count
// fields from first principles and diffs them against stored state
// (§4.C). When applyChanges is true, stored values are overwritten with
// the recomputed ones.
func VerifyAndOptionallyFix(s *store.Store, applyChanges bool) *Report {
	if applyChanges {
		s.Lock()
		defer s.Unlock()
	} else {
		s.RLock()
		defer s.RUnlock()
	}

	report := &Report{Users: make(map[string]UserReport)}

	for userID, u := range s.Users() {
		computed := computeCounts(u)

		ur := UserReport{
			Labels:  make(map[string]map[string]FieldDiff),
			Profile: make(map[string]FieldDiff),
		}

		for labelID, want := range computed {
			l, ok := u.Labels[labelID]
			if !ok {
				l = defaultLabelFor(labelID)
				if applyChanges {
					u.Labels[labelID] = l
				}
			}
			diffs := map[string]FieldDiff{}
			addDiff(diffs, "messagesTotal", want.messagesTotal, l.MessagesTotal)
			addDiff(diffs, "messagesUnread", want.messagesUnread, l.MessagesUnread)
			addDiff(diffs, "threadsTotal", want.threadsTotal, l.ThreadsTotal)
			addDiff(diffs, "threadsUnread", want.threadsUnread, l.ThreadsUnread)
			if len(diffs) > 0 {
				ur.Labels[labelID] = diffs
				report.HasDifferences = true
				if applyChanges {
					l.MessagesTotal = want.messagesTotal
					l.MessagesUnread = want.messagesUnread
					l.ThreadsTotal = want.threadsTotal
					l.ThreadsUnread = want.threadsUnread
				}
			}
		}
		// Labels with zero computed counts but present in the label map
		// were already seeded into `computed` by computeCounts.

		expectedMessagesTotal := len(u.Messages)
		expectedThreadsTotal := len(u.Threads)
		addDiff(ur.Profile, "messagesTotal", expectedMessagesTotal, u.Profile.MessagesTotal)
		addDiff(ur.Profile, "threadsTotal", expectedThreadsTotal, u.Profile.ThreadsTotal)
		if len(ur.Profile) > 0 {
			report.HasDifferences = true
			if applyChanges {
				u.Profile.MessagesTotal = expectedMessagesTotal
				u.Profile.ThreadsTotal = expectedThreadsTotal
			}
		}

		report.Users[userID] = ur
	}

	return report
}

// Recompute overwrites every label's and the profile's count fields for
// u from first principles (§4.C steps 1-4, 6), without producing a
// Report. Mutation paths (send/modify/delete/...) call this directly
// after each change; the reentrancy rule in §5 forbids them from
// invoking VerifyAndOptionallyFix itself.
func Recompute(u *domain.User) {
	computed := computeCounts(u)
	for labelID, want := range computed {
		l, ok := u.Labels[labelID]
		if !ok {
			l = defaultLabelFor(labelID)
			u.Labels[labelID] = l
		}
		l.MessagesTotal = want.messagesTotal
		l.MessagesUnread = want.messagesUnread
		l.ThreadsTotal = want.threadsTotal
		l.ThreadsUnread = want.threadsUnread
	}
	u.Profile.MessagesTotal = len(u.Messages)
	u.Profile.ThreadsTotal = len(u.Threads)
}

func addDiff(into map[string]FieldDiff, field string, expected, actual int) {
	if expected != actual {
		into[field] = FieldDiff{Expected: expected, Actual: actual}
	}
}

func defaultLabelFor(id string) *domain.Label {
	if domain.IsSystemLabel(id) {
		return domain.NewSystemLabel(id)
	}
	return domain.NewUserLabel(id)
}

// computeCounts implements §4.C steps 1-4: seed every known label at
// zero, fold in every message (including draft-embedded ones), then fold
// in thread-level unions.
func computeCounts(u *domain.User) map[string]counts {
	computed := make(map[string]counts, len(u.Labels))
	for id := range u.Labels {
		computed[id] = counts{}
	}

	for _, m := range u.AllMessages() {
		unread := m.IsUnread()
		for _, raw := range m.LabelSlice() {
			id := strings.ToUpper(raw)
			if !domain.IsSystemLabel(id) {
				id = raw
			}
			c := computed[id]
			c.messagesTotal++
			if unread {
				c.messagesUnread++
			}
			computed[id] = c
		}
	}

	for _, t := range u.Threads {
		threadLabels := map[string]struct{}{}
		unreadLabels := map[string]struct{}{}
		for _, msgID := range t.MessageIds {
			m, ok := u.Messages[msgID]
			if !ok {
				continue
			}
			for _, raw := range m.LabelSlice() {
				id := strings.ToUpper(raw)
				if !domain.IsSystemLabel(id) {
					id = raw
				}
				threadLabels[id] = struct{}{}
				if m.IsUnread() {
					unreadLabels[id] = struct{}{}
				}
			}
		}
		for id := range threadLabels {
			c := computed[id]
			c.threadsTotal++
			computed[id] = c
		}
		for id := range unreadLabels {
			c := computed[id]
			c.threadsUnread++
			computed[id] = c
		}
	}

	return computed
}
