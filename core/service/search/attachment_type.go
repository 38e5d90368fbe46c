package search

import (
	"strings"

	"google.golang.org/api/gmail/v1"

	"mailsim/core/domain"
)

var attachmentTypes = map[string]struct{}{
	"youtube": {}, "drive": {}, "document": {}, "spreadsheet": {},
	"presentation": {}, "pdf": {}, "image": {}, "video": {}, "audio": {},
}

func isAttachmentType(v string) bool {
	_, ok := attachmentTypes[v]
	return ok
}

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}

// detectAttachmentType implements §4.D.6's trigger table for a single
// part. Returns "" if the part doesn't match any recognized type.
func detectAttachmentType(mimeType, filename string) string {
	mt := strings.ToLower(mimeType)
	fn := strings.ToLower(filename)

	if strings.Contains(mt, "youtube") || strings.Contains(fn, "youtube") {
		return "youtube"
	}
	if strings.Contains(mt, "spreadsheetml") || strings.Contains(mt, "vnd.google-apps.spreadsheet") ||
		hasSuffix(fn, ".xls", ".xlsx", ".csv") {
		return "spreadsheet"
	}
	if strings.Contains(mt, "presentationml") || strings.Contains(mt, "vnd.google-apps.presentation") ||
		hasSuffix(fn, ".ppt", ".pptx") {
		return "presentation"
	}
	if strings.Contains(mt, "wordprocessingml") || strings.Contains(mt, "vnd.google-apps.document") ||
		hasSuffix(fn, ".doc", ".docx") ||
		(strings.Contains(mt, "document") && !strings.Contains(mt, "spreadsheet") && !strings.Contains(mt, "presentation")) {
		return "document"
	}
	if strings.Contains(mt, "drive") || strings.Contains(fn, "google") || strings.Contains(mt, "vnd.google-apps.file") {
		return "drive"
	}
	if strings.Contains(mt, "pdf") || hasSuffix(fn, ".pdf") {
		return "pdf"
	}
	if strings.HasPrefix(mt, "image/") || hasSuffix(fn, imageExts...) {
		return "image"
	}
	if strings.HasPrefix(mt, "video/") || hasSuffix(fn, ".mp4", ".avi", ".mov") {
		return "video"
	}
	if strings.HasPrefix(mt, "audio/") || hasSuffix(fn, ".mp3", ".wav", ".m4a") {
		return "audio"
	}
	return ""
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func messageHasAttachmentType(m *domain.Message, want string) bool {
	if m.Payload == nil {
		return false
	}
	var found bool
	var visit func(p *gmail.MessagePart)
	visit = func(p *gmail.MessagePart) {
		if p == nil || found {
			return
		}
		if detectAttachmentType(p.MimeType, p.Filename) == want {
			found = true
			return
		}
		for _, child := range p.Parts {
			visit(child)
		}
	}
	visit(m.Payload)
	return found
}
