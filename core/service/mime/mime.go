// Package mime implements the mailbox simulator's MIME ingestion and
// send-path (§4.B): assembling a raw MIME blob from structured fields,
// parsing a raw blob back into headers/body/attachments, and addressing
// attachments by content hash.
package mime

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"google.golang.org/api/gmail/v1"

	"mailsim/pkg/apperr"
)

// Attachment is a file to embed when building a raw message.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// BuildRequest is the structured-field input to BuildRaw.
type BuildRequest struct {
	From        string
	To          string
	Cc          string
	Bcc         string
	Subject     string
	Body        string
	Attachments []Attachment
}

// BuildRaw assembles a standards-compliant MIME message (multipart/mixed
// when attachments are present, text/plain otherwise) and returns its
// base64url encoding, matching the `raw` field Gmail's API itself uses.
func BuildRaw(req BuildRequest) string {
	var buf bytes.Buffer

	writeHeader(&buf, "From", req.From)
	writeHeader(&buf, "To", req.To)
	writeHeader(&buf, "Cc", req.Cc)
	writeHeader(&buf, "Bcc", req.Bcc)
	writeHeader(&buf, "Subject", req.Subject)

	if len(req.Attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(req.Body)
	} else {
		w := multipart.NewWriter(&buf)
		buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary()))

		bodyPart, _ := w.CreatePart(map[string][]string{
			"Content-Type": {"text/plain; charset=\"UTF-8\""},
		})
		io.Copy(bodyPart, strings.NewReader(req.Body))

		for _, a := range req.Attachments {
			ct := a.MimeType
			if ct == "" {
				ct = "application/octet-stream"
			}
			part, _ := w.CreatePart(map[string][]string{
				"Content-Type":              {ct},
				"Content-Transfer-Encoding": {"base64"},
				"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
			})
			enc := base64.NewEncoder(base64.StdEncoding, part)
			enc.Write(a.Data)
			enc.Close()
		}
		w.Close()
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes())
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// ExtractedAttachment is a part pulled out of a parsed raw message, ready
// to be inserted into the global attachment table.
type ExtractedAttachment struct {
	ID       string
	Filename string
	MimeType string
	Data     []byte
}

// ParsedMessage is the result of parsing a raw MIME blob: the header
// fields the mailbox model tracks directly, a payload tree for storage,
// and any attachments extracted for insertion into the global table.
type ParsedMessage struct {
	From        string
	To          string
	Cc          string
	Bcc         string
	Subject     string
	BodyText    string
	Payload     *gmail.MessagePart
	Attachments []ExtractedAttachment
}

// ParseRaw decodes a base64url MIME blob and parses headers and body.
// Malformed base64 is a hard failure (InvalidRaw); everything past that
// point is best-effort — unparseable headers become empty fields rather
// than failing the whole operation (§4.B failure modes).
func ParseRaw(raw string) (*ParsedMessage, error) {
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		if data2, err2 := base64.StdEncoding.DecodeString(raw); err2 == nil {
			data = data2
		} else {
			return nil, apperr.InvalidRaw("not valid base64url").WithError(err)
		}
	}

	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return &ParsedMessage{}, nil
	}

	pm := &ParsedMessage{
		From:    msg.Header.Get("From"),
		To:      msg.Header.Get("To"),
		Cc:      msg.Header.Get("Cc"),
		Bcc:     msg.Header.Get("Bcc"),
		Subject: msg.Header.Get("Subject"),
	}

	body, _ := io.ReadAll(msg.Body)
	contentType := msg.Header.Get("Content-Type")
	mediaType, params, parseErr := mime.ParseMediaType(contentType)

	if parseErr == nil && strings.HasPrefix(mediaType, "multipart/") {
		pm.Payload = &gmail.MessagePart{MimeType: mediaType}
		parts, atts := parseMultipart(body, params["boundary"])
		pm.Payload.Parts = parts
		pm.Attachments = atts
		for _, p := range parts {
			if strings.HasPrefix(p.MimeType, "text/plain") && p.Body != nil {
				pm.BodyText = decodeInlineData(p.Body.Data)
			}
		}
	} else {
		pm.BodyText = string(body)
		mt := mediaType
		if mt == "" {
			mt = "text/plain"
		}
		pm.Payload = &gmail.MessagePart{
			MimeType: mt,
			Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString(body)},
		}
	}

	return pm, nil
}

func parseMultipart(body []byte, boundary string) ([]*gmail.MessagePart, []ExtractedAttachment) {
	if boundary == "" {
		return nil, nil
	}
	var parts []*gmail.MessagePart
	var attachments []ExtractedAttachment

	r := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		p, err := r.NextPart()
		if err != nil {
			break
		}
		raw, _ := io.ReadAll(p)
		if strings.EqualFold(p.Header.Get("Content-Transfer-Encoding"), "base64") {
			if decoded, derr := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw))); derr == nil {
				raw = decoded
			}
		} else if strings.EqualFold(p.Header.Get("Content-Transfer-Encoding"), "quoted-printable") {
			if decoded, derr := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(raw))); derr == nil {
				raw = decoded
			}
		}

		ct := p.Header.Get("Content-Type")
		mt, _, _ := mime.ParseMediaType(ct)
		if mt == "" {
			mt = "application/octet-stream"
		}
		filename := p.FileName()

		part := &gmail.MessagePart{
			MimeType: mt,
			Filename: filename,
		}

		if filename != "" {
			id := HashAttachment(raw)
			part.Body = &gmail.MessagePartBody{
				AttachmentId: id,
				Size:         int64(len(raw)),
			}
			attachments = append(attachments, ExtractedAttachment{
				ID:       id,
				Filename: filename,
				MimeType: mt,
				Data:     raw,
			})
		} else {
			part.Body = &gmail.MessagePartBody{
				Data: base64.URLEncoding.EncodeToString(raw),
				Size: int64(len(raw)),
			}
		}
		parts = append(parts, part)
	}
	return parts, attachments
}

func decodeInlineData(data string) string {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(raw)
}

// HashAttachment returns a stable 16-hex-char content hash for data,
// used as the global attachment table's key (§4.B, §3.1 Attachment).
func HashAttachment(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)[:16]
}
