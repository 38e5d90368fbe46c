package search

import (
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/gmail/v1"

	"mailsim/core/domain"
)

// predFn resolves one leaf token against the evaluation context.
type predFn func(ctx *evalContext) idSet

// buildPredicate dispatches a single token to its field predicate, or to
// keyword matching when the token carries no recognized field prefix
// (§4.D.4 term, §4.D.5). Unknown fields return the full universe so they
// compose as a no-op under AND.
func buildPredicate(tok string) predFn {
	if idx := strings.Index(tok, ":"); idx > 0 {
		field := strings.ToLower(tok[:idx])
		value := stripQuotes(tok[idx+1:])
		if fn, ok := fieldPredicates[field]; ok {
			return fn(value)
		}
		return universePred
	}
	return keywordPredicate(stripQuotes(tok))
}

func universePred(ctx *evalContext) idSet { return ctx.universe }

func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

var fieldPredicates map[string]func(value string) predFn

func init() {
	fieldPredicates = map[string]func(value string) predFn{
		"from":        func(v string) predFn { return matchEqualFold(v, func(m *domain.Message) string { return m.Sender }) },
		"to":          func(v string) predFn { return matchEqualFold(v, func(m *domain.Message) string { return m.Recipient }) },
		"cc":          func(v string) predFn { return matchContains(v, func(m *domain.Message) string { return m.Cc }) },
		"bcc":         func(v string) predFn { return matchContains(v, func(m *domain.Message) string { return m.Bcc }) },
		"subject":     func(v string) predFn { return subjectPredicate(v) },
		"label":       func(v string) predFn { return labelPredicate(v) },
		"filename":    func(v string) predFn { return filenamePredicate(v) },
		"after":       func(v string) predFn { return afterPredicate(v) },
		"before":      func(v string) predFn { return beforePredicate(v) },
		"older_than":  func(v string) predFn { return olderThanPredicate(v) },
		"newer_than":  func(v string) predFn { return newerThanPredicate(v) },
		"size":        func(v string) predFn { return sizePredicate(v, sizeEQ) },
		"larger":      func(v string) predFn { return sizePredicate(v, sizeGT) },
		"smaller":     func(v string) predFn { return sizePredicate(v, sizeLT) },
		"is":          func(v string) predFn { return isPredicate(v) },
		"category":    func(v string) predFn { return categoryPredicate(v) },
		"list":        func(v string) predFn { return matchContains(v, func(m *domain.Message) string { return m.Sender }) },
		"deliveredto": func(v string) predFn { return matchContains(v, func(m *domain.Message) string { return m.Recipient }) },
		"rfc822msgid": func(v string) predFn { return rfc822MsgIDPredicate(v) },
		"has":         func(v string) predFn { return hasPredicate(v) },
		"in":          func(v string) predFn { return inPredicate(v) },
	}
}

func matchEqualFold(value string, field func(*domain.Message) string) predFn {
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if strings.EqualFold(field(ctx.messages[id]), value) {
				out.add(id)
			}
		}
		return out
	}
}

func matchContains(value string, field func(*domain.Message) string) predFn {
	lower := strings.ToLower(value)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if strings.Contains(strings.ToLower(field(ctx.messages[id])), lower) {
				out.add(id)
			}
		}
		return out
	}
}

func subjectPredicate(value string) predFn {
	lower := strings.ToLower(value)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if strings.Contains(strings.ToLower(ctx.messages[id].Subject), lower) {
				out.add(id)
			}
		}
		return out
	}
}

func labelPredicate(value string) predFn {
	up := strings.ToUpper(value)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if ctx.messages[id].HasLabel(up) {
				out.add(id)
			}
		}
		return out
	}
}

func filenamePredicate(value string) predFn {
	lower := strings.ToLower(value)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			for _, part := range ctx.messages[id].Attachments() {
				if strings.Contains(strings.ToLower(part.Filename), lower) {
					out.add(id)
					break
				}
			}
		}
		return out
	}
}

func rfc822MsgIDPredicate(value string) predFn {
	lower := strings.ToLower(value)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if strings.Contains(strings.ToLower(id), lower) {
				out.add(id)
			}
		}
		return out
	}
}

func isPredicate(value string) predFn {
	switch strings.ToLower(value) {
	case "unread":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if ctx.messages[id].HasLabel(domain.LabelUnread) {
					out.add(id)
				}
			}
			return out
		}
	case "read":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if !ctx.messages[id].HasLabel(domain.LabelUnread) {
					out.add(id)
				}
			}
			return out
		}
	case "starred":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				for l := range ctx.messages[id].LabelIds {
					if strings.Contains(strings.ToUpper(l), "STAR") {
						out.add(id)
						break
					}
				}
			}
			return out
		}
	case "important":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if ctx.messages[id].HasLabel(domain.LabelImportant) {
					out.add(id)
				}
			}
			return out
		}
	case "muted":
		return emptySetPred
	default:
		return universePred
	}
}

func emptySetPred(ctx *evalContext) idSet { return idSet{} }

var categoryNames = map[string]string{
	"primary":      "CATEGORY_PERSONAL",
	"social":       "CATEGORY_SOCIAL",
	"promotions":   "CATEGORY_PROMOTIONS",
	"updates":      "CATEGORY_UPDATES",
	"forums":       "CATEGORY_FORUMS",
	"reservations": "CATEGORY_RESERVATIONS",
	"purchases":    "CATEGORY_PURCHASES",
}

func categoryPredicate(value string) predFn {
	label, ok := categoryNames[strings.ToLower(value)]
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if ctx.messages[id].HasLabel(label) {
				out.add(id)
			}
		}
		return out
	}
}

func inPredicate(value string) predFn {
	switch strings.ToLower(value) {
	case "anywhere":
		return universePred
	case "snoozed":
		return emptySetPred
	default:
		return universePred
	}
}

func hasPredicate(value string) predFn {
	v := strings.ToLower(value)
	switch v {
	case "attachment":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if len(ctx.messages[id].Attachments()) > 0 {
					out.add(id)
				}
			}
			return out
		}
	case "userlabels":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if hasUserLabel(ctx.messages[id]) {
					out.add(id)
				}
			}
			return out
		}
	case "nouserlabels":
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if !hasUserLabel(ctx.messages[id]) {
					out.add(id)
				}
			}
			return out
		}
	}
	if isAttachmentType(v) {
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if messageHasAttachmentType(ctx.messages[id], v) {
					out.add(id)
				}
			}
			return out
		}
	}
	if isStarColor(v) {
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				if messageHasStarColor(ctx.messages[id], v) {
					out.add(id)
				}
			}
			return out
		}
	}
	return emptySetPred
}

func hasUserLabel(m *domain.Message) bool {
	for id := range m.LabelIds {
		if !domain.IsSystemLabel(id) {
			return true
		}
	}
	return false
}

var starColors = map[string]struct{}{
	"star": {}, "yellow-star": {}, "orange-star": {}, "red-star": {},
	"purple-star": {}, "blue-star": {}, "green-star": {}, "red-bang": {},
	"yellow-bang": {}, "orange-guillemet": {}, "green-check": {},
	"blue-info": {}, "purple-question": {},
}

func isStarColor(v string) bool {
	_, ok := starColors[v]
	return ok
}

func messageHasStarColor(m *domain.Message, color string) bool {
	want := strings.ToUpper(strings.ReplaceAll(color, "-", "_"))
	for id := range m.LabelIds {
		if strings.ToUpper(id) == want {
			return true
		}
	}
	return false
}

func sizePredicate(value string, cmp func(a, b int64) bool) predFn {
	want, ok := parseSize(value)
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if cmp(computedSize(ctx.messages[id]), want) {
				out.add(id)
			}
		}
		return out
	}
}

func sizeEQ(a, b int64) bool { return a == b }
func sizeGT(a, b int64) bool { return a > b }
func sizeLT(a, b int64) bool { return a < b }

func afterPredicate(value string) predFn {
	t, ok := parseDate(value)
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if internalDateAfter(ctx.messages[id], t) {
				out.add(id)
			}
		}
		return out
	}
}

func beforePredicate(value string) predFn {
	t, ok := parseDate(value)
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			if internalDateBefore(ctx.messages[id], t) {
				out.add(id)
			}
		}
		return out
	}
}

func olderThanPredicate(value string) predFn {
	d, ok := parsePeriod(value)
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		cutoff := ctx.now.Add(-d)
		out := idSet{}
		for id := range ctx.universe {
			if internalDateBefore(ctx.messages[id], cutoff) {
				out.add(id)
			}
		}
		return out
	}
}

func newerThanPredicate(value string) predFn {
	d, ok := parsePeriod(value)
	if !ok {
		return emptySetPred
	}
	return func(ctx *evalContext) idSet {
		cutoff := ctx.now.Add(-d)
		out := idSet{}
		for id := range ctx.universe {
			if internalDateAfter(ctx.messages[id], cutoff) {
				out.add(id)
			}
		}
		return out
	}
}

// keywordPredicate matches subject/body/sender/recipient, case-insensitive
// and substring-capable (§4.D.7 text index), or as an exact \bword\b
// regex when prefixed with '+' (bypasses the index entirely).
func keywordPredicate(tok string) predFn {
	if strings.HasPrefix(tok, "+") && len(tok) > 1 {
		word := tok[1:]
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if err != nil {
			return emptySetPred
		}
		return func(ctx *evalContext) idSet {
			out := idSet{}
			for id := range ctx.universe {
				m := ctx.messages[id]
				if re.MatchString(m.Subject) || re.MatchString(m.Body) ||
					re.MatchString(m.Sender) || re.MatchString(m.Recipient) {
					out.add(id)
				}
			}
			return out
		}
	}

	lower := strings.ToLower(tok)
	return func(ctx *evalContext) idSet {
		out := idSet{}
		for id := range ctx.universe {
			m := ctx.messages[id]
			if strings.Contains(strings.ToLower(m.Subject), lower) ||
				strings.Contains(strings.ToLower(m.Body), lower) ||
				strings.Contains(strings.ToLower(m.Sender), lower) ||
				strings.Contains(strings.ToLower(m.Recipient), lower) {
				out.add(id)
			}
		}
		return out
	}
}

// computedSize implements §4.D.8.
func computedSize(m *domain.Message) int64 {
	size := int64(len(m.Subject) + len(m.Body) + len(m.Sender) + len(m.Recipient))
	if m.Payload == nil {
		return size
	}
	var visit func(p *gmail.MessagePart)
	visit = func(p *gmail.MessagePart) {
		if p == nil {
			return
		}
		if p.Body != nil {
			size += p.Body.Size
			if p.Body.Data != "" {
				size += int64(len(p.Body.Data)) * 3 / 4
			}
		}
		for _, child := range p.Parts {
			visit(child)
		}
	}
	visit(m.Payload)
	return size
}

func parseSize(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	mult := int64(1)
	suffix := value[len(value)-1]
	switch suffix {
	case 'k', 'K':
		mult = 1024
		value = value[:len(value)-1]
	case 'm', 'M':
		mult = 1024 * 1024
		value = value[:len(value)-1]
	case 'g', 'G':
		mult = 1024 * 1024 * 1024
		value = value[:len(value)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return n * mult, true
}
