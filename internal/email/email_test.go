package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/maraton/maraton-api/internal/logging"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestSendPasswordResetEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "http://localhost:5173")

	if err := svc.SendPasswordResetEmail(context.Background(), "a@b.com", "tok.en"); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	link := "http://localhost:5173/restablecer?token=tok.en"
	if msg.To != "a@b.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Text, link) {
		t.Errorf("text body missing link: %q", msg.Text)
	}
	if !strings.Contains(msg.HTML, link) {
		t.Errorf("html body missing link: %q", msg.HTML)
	}
}

func TestSendPasswordResetEmailPropagatesError(t *testing.T) {
	svc := NewService(&fakeSender{err: errors.New("smtp down")}, "http://x")

	if err := svc.SendPasswordResetEmail(context.Background(), "a@b.com", "t"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeSender{err: errors.New("boom")}
	b := NewBreakerSender(inner, logging.NewLogger(false))

	for i := 0; i < 3; i++ {
		_ = b.Send(context.Background(), Message{To: "a@b.com"})
	}

	err := b.Send(context.Background(), Message{To: "a@b.com"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if len(inner.sent) != 3 {
		t.Errorf("inner sender called %d times, want 3", len(inner.sent))
	}
}

func TestThrottledSenderHonorsContext(t *testing.T) {
	inner := &fakeSender{}
	th := NewThrottledSender(inner, 0.001)

	if err := th.Send(context.Background(), Message{}); err != nil {
		t.Fatalf("first send error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := th.Send(ctx, Message{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if len(inner.sent) != 1 {
		t.Errorf("inner sends = %d, want 1", len(inner.sent))
	}
}

func TestSMTPSenderBuildsMultipart(t *testing.T) {
	s := NewSMTPSender("mail.local", "2525", "", "", "no-reply@maraton.app")

	var gotAddr string
	var gotBody []byte
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotBody = msg
		if a != nil {
			t.Error("expected no auth without user")
		}
		return nil
	}

	err := s.Send(context.Background(), Message{To: "a@b.com", Subject: "Hola", Text: "plain", HTML: "<p>html</p>"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotAddr != "mail.local:2525" {
		t.Errorf("addr = %q", gotAddr)
	}
	body := string(gotBody)
	for _, want := range []string{"Subject: Hola", "multipart/alternative", "text/plain", "plain", "text/html", "<p>html</p>"} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

type fakeResend struct {
	req *resend.SendEmailRequest
}

func (f *fakeResend) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = params
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func TestResendSenderMapsMessage(t *testing.T) {
	api := &fakeResend{}
	s := &ResendSender{emails: api, from: "Maraton <no-reply@maraton.app>"}

	if err := s.Send(context.Background(), Message{To: "a@b.com", Subject: "S", Text: "T", HTML: "H"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if api.req.From != "Maraton <no-reply@maraton.app>" || len(api.req.To) != 1 || api.req.To[0] != "a@b.com" {
		t.Errorf("unexpected request: %+v", api.req)
	}
	if api.req.Html != "H" || api.req.Text != "T" {
		t.Errorf("bodies not mapped: %+v", api.req)
	}
}
