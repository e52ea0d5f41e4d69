package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandebooths/packer-service/internal/model"
)

type roster map[string]string

func (r roster) EmailFor(_, name string) string { return r[name] }

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func pngURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func testNotice() model.SubmissionNotice {
	return model.SubmissionNotice{
		EventID:     "42",
		Kind:        model.KindPacker,
		StaffMember: "Sam Lee",
		EventTitle:  "Smith <Wedding>",
		EventDate:   "2025-06-14",
		Items: []model.ChecklistItem{
			{ID: "auto_0", Text: "Venture", Required: true, Completed: true},
			{ID: "auto_1", Text: "Props", Required: false, Completed: false},
		},
		Signature:           pngURI(),
		ChecklistScreenshot: pngURI(),
		SubmittedAt:         time.Date(2025, 6, 13, 18, 0, 0, 0, time.UTC),
	}
}

func testConfig() Config {
	return Config{
		Host: "smtp.example.com",
		Port: 587,
		User: "dash@example.com",
		Pass: "secret",
		From: "dash@example.com",
		To:   "owner@example.com",
		CC:   []string{"ops@example.com", "owner@example.com"},
	}
}

func TestSubject(t *testing.T) {
	n := testNotice()
	assert.Equal(t, "Packing List Complete: Smith <Wedding>, 2025-06-14", Subject(n))

	n.Kind = model.KindAttendant
	assert.Equal(t, "Pickup List Completed: Smith <Wedding>, 2025-06-14", Subject(n))
}

func TestMailer_Compose(t *testing.T) {
	m := New(testConfig(), roster{"Sam Lee": "sam@example.com"})

	msg, err := m.Compose(testNotice())
	require.NoError(t, err)

	assert.Equal(t, []string{"owner@example.com", "ops@example.com", "sam@example.com"}, msg.Recipients)

	mr, err := mail.CreateReader(bytes.NewReader(msg.Body))
	require.NoError(t, err)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, subject)

	var html string
	var files []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p.Body)
		require.NoError(t, err)
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			html = string(body)
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			require.NoError(t, err)
			files = append(files, name)
			assert.Equal(t, pngBytes, body)
		}
	}

	assert.Contains(t, html, "Smith &lt;Wedding&gt;")
	assert.Contains(t, html, "<li>Total Items: 2</li>")
	assert.Contains(t, html, "<li>Venture <strong>(REQUIRED)</strong></li>")
	assert.Contains(t, html, "Incomplete Items")
	assert.Contains(t, html, "<li>Props</li>")
	require.Len(t, files, 2)
	assert.True(t, strings.HasPrefix(files[0], "packer_signature_42_"))
	assert.True(t, strings.HasPrefix(files[1], "packer_checklist_42_"))
}

func TestMailer_Compose_SkipsBadImages(t *testing.T) {
	n := testNotice()
	n.Signature = "not-a-data-uri"
	n.ChecklistScreenshot = "data:image/png;base64,@@@"

	msg, err := New(testConfig(), nil).Compose(n)
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(msg.Body))
	require.NoError(t, err)
	attachments := 0
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if _, ok := p.Header.(*mail.AttachmentHeader); ok {
			attachments++
		}
	}
	assert.Zero(t, attachments)
}

func TestMailer_Compose_NoRecipient(t *testing.T) {
	cfg := testConfig()
	cfg.To = ""
	_, err := New(cfg, nil).Compose(testNotice())
	assert.Error(t, err)
}

func TestMailer_NotifySubmitted(t *testing.T) {
	m := New(testConfig(), nil)
	var gotAddr string
	var gotTo []string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		assert.Equal(t, "dash@example.com", from)
		assert.NotEmpty(t, msg)
		return nil
	}

	require.NoError(t, m.NotifySubmitted(context.Background(), testNotice()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"owner@example.com", "ops@example.com"}, gotTo)
}

func TestMailer_NotifySubmitted_RelayError(t *testing.T) {
	m := New(testConfig(), nil)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }

	err := m.NotifySubmitted(context.Background(), testNotice())
	assert.ErrorContains(t, err, "421 busy")
}

func TestMailer_NotifySubmitted_Cancelled(t *testing.T) {
	m := New(testConfig(), nil)
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error { called = true; return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.NotifySubmitted(ctx, testNotice()), context.Canceled)
	assert.False(t, called)
}
