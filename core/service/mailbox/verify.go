package mailbox

import (
	"time"

	"mailsim/core/service/label"
)

// Verify runs the label/count verifier across every user in the store,
// optionally repairing any differences found (§4.C). Unlike the
// per-mutation Recompute path, this is the operator-triggered pass.
func (mb *Mailbox) Verify(applyChanges bool) *label.Report {
	start := time.Now()
	report := label.VerifyAndOptionallyFix(mb.store, applyChanges)
	log := mb.log.WithField("apply", applyChanges).WithDuration(time.Since(start))
	if report.HasDifferences {
		log.WithField("users_with_diffs", len(report.Users)).Warn("label verifier found differences")
	} else {
		log.Debug("label verifier found no differences")
	}
	return report
}
