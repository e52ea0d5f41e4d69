// Package mailer composes and sends checklist submission summaries.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

// Config holds the SMTP relay and the fixed recipients.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	To       string
	CC       []string
	Location *time.Location
}

// Directory resolves a signer's display name to an email address.
type Directory interface {
	EmailFor(kind, name string) string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer turns a SubmissionNotice into a MIME message and relays it.
type Mailer struct {
	cfg   Config
	staff Directory
	send  SendFunc
}

// New returns a Mailer sending through net/smtp.  staff may be nil.
func New(cfg Config, staff Directory) *Mailer {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Mailer{cfg: cfg, staff: staff, send: smtp.SendMail}
}

// Message is a composed email ready for the relay.
type Message struct {
	From       string
	Recipients []string
	Subject    string
	Body       []byte
}

var dataURI = regexp.MustCompile(`^data:image/\w+;base64,`)

// Subject builds the summary subject line.
func Subject(n model.SubmissionNotice) string {
	prefix := "Packing List Complete"
	if n.Kind == model.KindAttendant {
		prefix = "Pickup List Completed"
	}
	return fmt.Sprintf("%s: %s, %s", prefix, n.EventTitle, n.EventDate)
}

var bodyTmpl = template.Must(template.New("summary").Parse(`<h2>{{.Subject}}</h2>
<p><strong>Completed by:</strong> {{.StaffMember}}</p>
<p><strong>Event:</strong> {{.EventTitle}}</p>
<p><strong>Date:</strong> {{.EventDate}}</p>
<p><strong>Completed:</strong> {{.Timestamp}}</p>
{{if .Signed}}<p><strong>Signature:</strong> &#10003; Digital signature captured</p>
{{end}}
<h3>Checklist Summary</h3>
<ul>
<li>Total Items: {{.Tally.Total}}</li>
<li>Completed: {{.Tally.Completed}}</li>
<li>Required Items: {{.Tally.Required}}</li>
<li>Required Completed: {{.Tally.RequiredCompleted}}</li>
</ul>
<h3>Completed Items</h3>
<ul>
{{range .Done}}<li>{{.Text}}{{if .Required}} <strong>(REQUIRED)</strong>{{end}}</li>
{{end}}</ul>
{{if .Open}}<h3>Incomplete Items</h3>
<ul>
{{range .Open}}<li>{{.Text}}{{if .Required}} <strong>(REQUIRED)</strong>{{end}}</li>
{{end}}</ul>
{{end}}{{if .Attachments}}<p><strong>Attachments:</strong> {{.Attachments}}</p>
{{end}}`))

type bodyData struct {
	Subject     string
	StaffMember string
	EventTitle  string
	EventDate   string
	Timestamp   string
	Signed      bool
	Tally       model.Tally
	Done        []model.ChecklistItem
	Open        []model.ChecklistItem
	Attachments string
}

type attachment struct {
	name string
	data []byte
}

// decodeImage returns the PNG bytes of a data URI, or nil when the value is
// not an image data URI or does not decode.
func decodeImage(uri string) []byte {
	loc := dataURI.FindStringIndex(uri)
	if loc == nil {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(uri[loc[1]:])
	if err != nil {
		logger.Warn("skipping undecodable image attachment", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return b
}

func (m *Mailer) recipients(n model.SubmissionNotice) (to string, cc []string) {
	seen := map[string]bool{strings.ToLower(m.cfg.To): true}
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[strings.ToLower(addr)] {
			return
		}
		seen[strings.ToLower(addr)] = true
		cc = append(cc, addr)
	}
	for _, a := range m.cfg.CC {
		add(a)
	}
	if m.staff != nil {
		add(m.staff.EmailFor(string(n.Kind), n.StaffMember))
	}
	return m.cfg.To, cc
}

func addressList(addrs ...string) []*mail.Address {
	out := make([]*mail.Address, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, &mail.Address{Address: a})
	}
	return out
}

// Compose builds the multipart message: an HTML summary followed by the
// signature and screenshot as PNG attachments when present.
func (m *Mailer) Compose(n model.SubmissionNotice) (*Message, error) {
	to, cc := m.recipients(n)
	if to == "" {
		return nil, errors.New("mailer: no recipient configured")
	}
	subject := Subject(n)
	stamp := strconv.FormatInt(n.SubmittedAt.UnixMilli(), 10)

	var files []attachment
	if b := decodeImage(n.Signature); b != nil {
		files = append(files, attachment{fmt.Sprintf("%s_signature_%s_%s.png", n.Kind, n.EventID, stamp), b})
	}
	if b := decodeImage(n.ChecklistScreenshot); b != nil {
		files = append(files, attachment{fmt.Sprintf("%s_checklist_%s_%s.png", n.Kind, n.EventID, stamp), b})
	}

	data := bodyData{
		Subject:     subject,
		StaffMember: n.StaffMember,
		EventTitle:  n.EventTitle,
		EventDate:   n.EventDate,
		Timestamp:   n.SubmittedAt.In(m.cfg.Location).Format("Jan 2, 2006 3:04 PM MST"),
		Signed:      n.Signature != "",
		Tally:       model.CountItems(n.Items),
	}
	for _, it := range n.Items {
		if it.Completed {
			data.Done = append(data.Done, it)
		} else {
			data.Open = append(data.Open, it)
		}
	}
	switch len(files) {
	case 0:
	case 1:
		data.Attachments = "1 image included"
	default:
		data.Attachments = "Digital signature and checklist screenshot included"
	}

	var html bytes.Buffer
	if err := bodyTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("mailer: render body: %w", err)
	}

	var h mail.Header
	h.SetDate(n.SubmittedAt)
	h.SetSubject(subject)
	h.SetAddressList("From", addressList(m.cfg.From))
	h.SetAddressList("To", addressList(to))
	if len(cc) > 0 {
		h.SetAddressList("Cc", addressList(cc...))
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("mailer: create writer: %w", err)
	}
	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("mailer: create inline: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("mailer: create html part: %w", err)
	}
	if _, err := w.Write(html.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	for _, f := range files {
		var ah mail.AttachmentHeader
		ah.SetContentType("image/png", nil)
		ah.SetFilename(f.name)
		ah.Set("Content-Transfer-Encoding", "base64")
		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("mailer: create attachment: %w", err)
		}
		if _, err := aw.Write(f.data); err != nil {
			return nil, err
		}
		if err := aw.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return &Message{
		From:       m.cfg.From,
		Recipients: append([]string{to}, cc...),
		Subject:    subject,
		Body:       buf.Bytes(),
	}, nil
}

// NotifySubmitted composes and relays the summary.  The relay call itself
// is not cancellable; ctx is only checked before sending.
func (m *Mailer) NotifySubmitted(ctx context.Context, n model.SubmissionNotice) error {
	msg, err := m.Compose(n)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, msg.From, msg.Recipients, msg.Body); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	logger.Info("submission summary sent", map[string]interface{}{
		"event_id":   n.EventID,
		"type":       string(n.Kind),
		"recipients": len(msg.Recipients),
	})
	return nil
}
