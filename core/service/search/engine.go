package search

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

// evalContext is the state threaded through AST evaluation: the
// candidate universe (already filtered by label/spam/trash per §4.D.2)
// and the messages that back each ID, keyed identically whether this is
// a message search (message IDs) or a draft search (draft IDs over
// draft-embedded messages).
type evalContext struct {
	universe idSet
	messages map[string]*domain.Message
	now      time.Time
}

// Result is one page of matching IDs.
type Result struct {
	IDs           []string
	NextPageToken string
}

// ListMessages implements §4.D.1/§4.D.2/§4.D.10 over a user's messages.
func ListMessages(u *domain.User, q string, labelIds []string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*Result, error) {
	return list(u.Messages, q, labelIds, includeSpamTrash, maxResults, pageToken, tokenBudget)
}

// ListDrafts implements the draft-flavored evaluator: identical grammar
// and filters, but over draft-embedded messages keyed by draft ID.
func ListDrafts(u *domain.User, q string, labelIds []string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*Result, error) {
	embedded := make(map[string]*domain.Message, len(u.Drafts))
	for draftID, d := range u.Drafts {
		if d.Message != nil {
			embedded[draftID] = d.Message
		}
	}
	return list(embedded, q, labelIds, includeSpamTrash, maxResults, pageToken, tokenBudget)
}

func list(all map[string]*domain.Message, q string, labelIds []string, includeSpamTrash bool, maxResults int, pageToken string, tokenBudget int) (*Result, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	if maxResults < 0 {
		return nil, apperr.InvalidArgument("maxResults must be non-negative")
	}

	offset := parsePageToken(pageToken)

	wantLabels := make(map[string]struct{}, len(labelIds))
	for _, l := range labelIds {
		wantLabels[strings.ToUpper(l)] = struct{}{}
	}

	universe := idSet{}
	for id, m := range all {
		if !includeSpamTrash && (m.HasLabel(domain.LabelTrash) || m.HasLabel(domain.LabelSpam)) {
			continue
		}
		if len(wantLabels) > 0 && !labelIntersects(m, wantLabels) {
			continue
		}
		universe.add(id)
	}

	tokens := Tokenize(q)
	root, err := Parse(tokens, tokenBudget)
	if err != nil {
		return nil, err
	}

	ctx := &evalContext{universe: universe, messages: all, now: time.Now()}
	matched := root.eval(ctx)

	ids := make([]string, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sortByInternalDateDesc(ids, all)

	return paginate(ids, offset, maxResults), nil
}

func labelIntersects(m *domain.Message, want map[string]struct{}) bool {
	for id := range m.LabelIds {
		if _, ok := want[strings.ToUpper(id)]; ok {
			return true
		}
	}
	return false
}

// validateQuery implements §4.D.1's input validation on q.
func validateQuery(q string) error {
	if strings.TrimSpace(q) == "" && q != "" {
		return apperr.InvalidArgument("query must not be pure whitespace")
	}
	return nil
}

func parsePageToken(tok string) int {
	if tok == "" {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// sortByInternalDateDesc orders ids by internalDate descending, ties
// broken by ID lexicographic descending (§4.D.10).
func sortByInternalDateDesc(ids []string, all map[string]*domain.Message) {
	sort.Slice(ids, func(i, j int) bool {
		mi, mj := all[ids[i]], all[ids[j]]
		di, dj := mi.InternalDate, mj.InternalDate
		if len(di) != len(dj) {
			return len(di) > len(dj)
		}
		if di != dj {
			return di > dj
		}
		return ids[i] > ids[j]
	})
}

func paginate(ids []string, offset, maxResults int) *Result {
	if offset > len(ids) {
		offset = len(ids)
	}
	page := ids[offset:]
	if maxResults > 0 && len(page) > maxResults {
		page = page[:maxResults]
		return &Result{IDs: page, NextPageToken: strconv.Itoa(offset + maxResults)}
	}
	return &Result{IDs: page}
}
