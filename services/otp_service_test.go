package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type stubMailer struct {
	sent []string
	fail bool
}

func (m *stubMailer) SendOTP(_ context.Context, _, _, code string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, code)
	return nil
}

func (m *stubMailer) SendPasswordReset(context.Context, string, string) error { return nil }

func newTestOTPService(mailer *stubMailer) (*otpService, *time.Time) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewOTPService(mailer, 600).(*otpService)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestOTPSendAndVerify(t *testing.T) {
	mailer := &stubMailer{}
	svc, _ := newTestOTPService(mailer)

	resp, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada")
	if apiErr != nil {
		t.Fatalf("SendOTP: %v", apiErr)
	}
	if !resp.Success || resp.ExpiresIn != 600 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(mailer.sent) != 1 || len(mailer.sent[0]) != 6 {
		t.Fatalf("expected one six-digit code, got %v", mailer.sent)
	}

	vresp, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", mailer.sent[0])
	if apiErr != nil {
		t.Fatalf("VerifyOTP: %v", apiErr)
	}
	if !vresp.Success {
		t.Fatalf("expected success, got %+v", vresp)
	}

	// the code is single use
	if _, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", mailer.sent[0]); apiErr == nil {
		t.Fatal("expected second verify to fail")
	}
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	svc, _ := newTestOTPService(&stubMailer{})
	_, apiErr := svc.VerifyOTP(context.Background(), "nobody@b.com", "123456")
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", apiErr)
	}
}

func TestOTPExpiry(t *testing.T) {
	mailer := &stubMailer{}
	svc, now := newTestOTPService(mailer)

	if _, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada"); apiErr != nil {
		t.Fatalf("SendOTP: %v", apiErr)
	}

	*now = now.Add(601 * time.Second)
	_, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", mailer.sent[0])
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for expired code, got %v", apiErr)
	}
	if apiErr.Message != "OTP has expired. Please request a new one." {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}

	// expiry removes the entry, so a correct code no longer works either
	_, apiErr = svc.VerifyOTP(context.Background(), "a@b.com", mailer.sent[0])
	if apiErr == nil || apiErr.Message != "No OTP found for this email. Please request a new one." {
		t.Fatalf("expected missing-entry error, got %v", apiErr)
	}
}

func TestOTPAttemptLimit(t *testing.T) {
	mailer := &stubMailer{}
	svc, _ := newTestOTPService(mailer)

	if _, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada"); apiErr != nil {
		t.Fatalf("SendOTP: %v", apiErr)
	}

	for i := 1; i <= 4; i++ {
		_, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", "000000")
		if apiErr == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	// fifth wrong attempt exhausts the code
	_, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", "000000")
	if apiErr == nil || apiErr.Message != "Too many failed attempts. Please request a new OTP." {
		t.Fatalf("expected lockout, got %v", apiErr)
	}

	// even the right code is now rejected
	_, apiErr = svc.VerifyOTP(context.Background(), "a@b.com", mailer.sent[0])
	if apiErr == nil {
		t.Fatal("expected error after lockout")
	}
}

func TestOTPAttemptCountdownMessage(t *testing.T) {
	mailer := &stubMailer{}
	svc, _ := newTestOTPService(mailer)
	if _, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada"); apiErr != nil {
		t.Fatalf("SendOTP: %v", apiErr)
	}
	_, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", "000000")
	if apiErr == nil || apiErr.Message != "Invalid OTP. 4 attempts remaining." {
		t.Fatalf("unexpected message %v", apiErr)
	}
}

func TestOTPResendThrottle(t *testing.T) {
	mailer := &stubMailer{}
	svc, now := newTestOTPService(mailer)

	if _, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada"); apiErr != nil {
		t.Fatalf("SendOTP: %v", apiErr)
	}

	*now = now.Add(30 * time.Second)
	_, apiErr := svc.ResendOTP(context.Background(), "a@b.com", "Ada")
	if apiErr == nil || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside the window, got %v", apiErr)
	}
	if apiErr.Message != "Please wait 30 seconds before requesting a new OTP." {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}

	*now = now.Add(31 * time.Second)
	resp, apiErr := svc.ResendOTP(context.Background(), "a@b.com", "Ada")
	if apiErr != nil {
		t.Fatalf("ResendOTP after window: %v", apiErr)
	}
	if !resp.Success || len(mailer.sent) != 2 {
		t.Fatalf("expected a fresh code, got %+v sent=%v", resp, mailer.sent)
	}
}

func TestOTPSendMailFailure(t *testing.T) {
	mailer := &stubMailer{fail: true}
	svc, _ := newTestOTPService(mailer)

	_, apiErr := svc.SendOTP(context.Background(), "a@b.com", "Ada")
	if apiErr == nil || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", apiErr)
	}
	// a failed send leaves nothing to verify against
	if _, apiErr := svc.VerifyOTP(context.Background(), "a@b.com", "123456"); apiErr == nil {
		t.Fatal("expected missing-entry error")
	}
}
