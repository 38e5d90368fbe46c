package search

import (
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"

	"mailsim/core/domain"
)

func ctxFor(messages map[string]*domain.Message) *evalContext {
	universe := idSet{}
	for id := range messages {
		universe.add(id)
	}
	return &evalContext{universe: universe, messages: messages, now: time.Now()}
}

func TestFromToPredicates(t *testing.T) {
	messages := map[string]*domain.Message{
		"a": {Sender: "Alice@Example.com", Recipient: "bob@example.com"},
		"b": {Sender: "carol@example.com", Recipient: "dave@example.com"},
	}
	ctx := ctxFor(messages)

	got := buildPredicate("from:alice@example.com")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("from: = %v, want {a}", got)
	}

	got = buildPredicate("to:dave@example.com")(ctx)
	if _, ok := got["b"]; !ok || len(got) != 1 {
		t.Fatalf("to: = %v, want {b}", got)
	}
}

func TestCcBccContainsMatch(t *testing.T) {
	messages := map[string]*domain.Message{
		"a": {Cc: "team@example.com, alice@example.com", Bcc: "secret@example.com"},
	}
	ctx := ctxFor(messages)

	if got := buildPredicate("cc:alice")(ctx); len(got) != 1 {
		t.Fatalf("cc: = %v, want {a}", got)
	}
	if got := buildPredicate("bcc:secret")(ctx); len(got) != 1 {
		t.Fatalf("bcc: = %v, want {a}", got)
	}
}

func TestLabelPredicate(t *testing.T) {
	m := &domain.Message{}
	m.AddLabel("IMPORTANT")
	messages := map[string]*domain.Message{"a": m, "b": {}}
	ctx := ctxFor(messages)

	got := buildPredicate("label:important")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("label: = %v, want {a}", got)
	}
}

func TestIsUnreadReadPredicate(t *testing.T) {
	unread := &domain.Message{}
	unread.AddLabel(domain.LabelUnread)
	read := &domain.Message{}
	messages := map[string]*domain.Message{"a": unread, "b": read}
	ctx := ctxFor(messages)

	got := buildPredicate("is:unread")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("is:unread = %v, want {a}", got)
	}
	got = buildPredicate("is:read")(ctx)
	if _, ok := got["b"]; !ok || len(got) != 1 {
		t.Fatalf("is:read = %v, want {b}", got)
	}
}

func TestIsMutedIsAlwaysEmpty(t *testing.T) {
	messages := map[string]*domain.Message{"a": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("is:muted")(ctx)
	if len(got) != 0 {
		t.Fatalf("is:muted = %v, want empty", got)
	}
}

func TestCategoryPredicate(t *testing.T) {
	m := &domain.Message{}
	m.AddLabel("CATEGORY_SOCIAL")
	messages := map[string]*domain.Message{"a": m, "b": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("category:social")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("category:social = %v, want {a}", got)
	}
}

func TestCategoryUnknownIsEmptySet(t *testing.T) {
	messages := map[string]*domain.Message{"a": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("category:bogus")(ctx)
	if len(got) != 0 {
		t.Fatalf("category:bogus = %v, want empty", got)
	}
}

func TestHasAttachmentPredicate(t *testing.T) {
	withAttachment := &domain.Message{Payload: &gmail.MessagePart{
		Parts: []*gmail.MessagePart{{Filename: "report.pdf", MimeType: "application/pdf"}},
	}}
	messages := map[string]*domain.Message{"a": withAttachment, "b": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("has:attachment")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("has:attachment = %v, want {a}", got)
	}
}

func TestHasPdfAttachmentType(t *testing.T) {
	withPdf := &domain.Message{Payload: &gmail.MessagePart{
		Parts: []*gmail.MessagePart{{Filename: "invoice.pdf", MimeType: "application/pdf"}},
	}}
	withImage := &domain.Message{Payload: &gmail.MessagePart{
		Parts: []*gmail.MessagePart{{Filename: "photo.png", MimeType: "image/png"}},
	}}
	messages := map[string]*domain.Message{"a": withPdf, "b": withImage}
	ctx := ctxFor(messages)
	got := buildPredicate("has:pdf")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("has:pdf = %v, want {a}", got)
	}
}

func TestHasStarColorPredicate(t *testing.T) {
	m := &domain.Message{}
	m.AddLabel("RED_STAR")
	messages := map[string]*domain.Message{"a": m, "b": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("has:red-star")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("has:red-star = %v, want {a}", got)
	}
}

func TestSizeLargerSmallerPredicates(t *testing.T) {
	small := &domain.Message{Subject: "hi"}
	big := &domain.Message{Subject: "this is a considerably longer subject line than the other one"}
	messages := map[string]*domain.Message{"small": small, "big": big}
	ctx := ctxFor(messages)

	got := buildPredicate("larger:10")(ctx)
	if _, ok := got["big"]; !ok {
		t.Fatalf("larger:10 = %v, want big present", got)
	}
	if _, ok := got["small"]; ok {
		t.Fatalf("larger:10 = %v, want small absent", got)
	}

	got = buildPredicate("smaller:10")(ctx)
	if _, ok := got["small"]; !ok {
		t.Fatalf("smaller:10 = %v, want small present", got)
	}
	if _, ok := got["big"]; ok {
		t.Fatalf("smaller:10 = %v, want big absent", got)
	}
}

func TestParseSizeSuffixes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1024", 1024, true},
		{"1k", 1024, true},
		{"2M", 2 * 1024 * 1024, true},
		{"1g", 1024 * 1024 * 1024, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSize(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseSize(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeywordPredicateMatchesSubjectAndBody(t *testing.T) {
	messages := map[string]*domain.Message{
		"a": {Subject: "quarterly report", Body: "see attached"},
		"b": {Subject: "lunch", Body: "quarterly numbers inside"},
		"c": {Subject: "unrelated", Body: "nothing here"},
	}
	ctx := ctxFor(messages)
	got := buildPredicate("quarterly")(ctx)
	if len(got) != 2 {
		t.Fatalf("keyword match = %v, want 2 messages", got)
	}
}

func TestKeywordPlusPrefixIsWholeWordMatch(t *testing.T) {
	messages := map[string]*domain.Message{
		"a": {Subject: "cats and dogs"},
		"b": {Subject: "category update"},
	}
	ctx := ctxFor(messages)
	got := buildPredicate("+cats")(ctx)
	if _, ok := got["a"]; !ok || len(got) != 1 {
		t.Fatalf("+cats whole-word match = %v, want {a} only (not 'category')", got)
	}
}

func TestUnknownFieldFallsBackToUniverse(t *testing.T) {
	messages := map[string]*domain.Message{"a": {}, "b": {}}
	ctx := ctxFor(messages)
	got := buildPredicate("bogusfield:whatever")(ctx)
	if len(got) != 2 {
		t.Fatalf("unknown field = %v, want full universe", got)
	}
}
