// Package label implements the label & counter manager (§4.C):
// auto-creation of referenced labels and the verifier/repairer that
// recomputes count fields from first principles.
package label

import "mailsim/core/domain"

// EnsureLabel returns the label entry for id in u's label map, creating
// it in place if this is the first reference. Returns nil if id is not a
// string-typed value the caller can create a label from (callers pass
// already-string IDs, so this only guards empty IDs).
func EnsureLabel(u *domain.User, id string) *domain.Label {
	if id == "" {
		return nil
	}
	canonical := domain.CanonicalLabelID(id)
	if l, ok := u.Labels[canonical]; ok {
		return l
	}
	var l *domain.Label
	if domain.IsSystemLabel(canonical) {
		l = domain.NewSystemLabel(canonical)
	} else {
		l = domain.NewUserLabel(canonical)
	}
	u.Labels[canonical] = l
	return l
}
