package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer sends transactional mail. The OTP service depends on this
// interface so tests can substitute a recording stub.
type Mailer interface {
	SendOTP(ctx context.Context, email, userName, code string) error
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("FREELANCENEST_MG_DOMAIN")
	apiKey := os.Getenv("FREELANCENEST_MG_PUBLIC_API_KEY")
	m.From = os.Getenv("FREELANCENEST_EMAIL_FROM")
	if m.From == "" {
		m.From = fmt.Sprintf("FreelanceNest <no-reply@%s>", domain)
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
	log.Println("Mailgun client initialized")
}

// SendOTP delivers the verification code email.
func (m *Mailgun) SendOTP(ctx context.Context, email, userName, code string) error {
	subject := "Verify Your Email - FreelanceNest Account"
	message := m.Client.NewMessage(m.From, subject, "Your verification code is "+code, email)
	message.SetHtml(otpEmailHTML(userName, code))

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	if err != nil {
		log.Printf("error sending OTP mail to %s: %v", email, err)
		return err
	}
	return nil
}

// SendPasswordReset delivers the reset link email.
func (m *Mailgun) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	subject := "Reset Your Password - FreelanceNest"
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s\n\nThe link expires in one hour. If you didn't request this, ignore this email.", resetLink)
	message := m.Client.NewMessage(m.From, subject, body, email)

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	if err != nil {
		log.Printf("error sending password reset mail to %s: %v", email, err)
		return err
	}
	return nil
}

// otpEmailHTML renders the branded verification email.
func otpEmailHTML(userName, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Verify Your Email - FreelanceNest</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;background-color:#f5f5f5;">
  <div style="max-width:600px;margin:0 auto;background-color:white;border-radius:10px;overflow:hidden;">
    <div style="background:linear-gradient(135deg,#FF6B00 0%%,#FF9F45 100%%);padding:40px 20px;text-align:center;">
      <h1 style="color:white;margin:0;font-size:28px;">Freelance<span style="color:#FFE4CC;">Nest</span></h1>
      <p style="color:#FFE4CC;margin:10px 0 0 0;font-size:16px;">Your gateway to freelancing success</p>
    </div>
    <div style="padding:40px 30px;">
      <h2 style="color:#2E2E2E;margin:0 0 20px 0;font-size:24px;">Welcome to FreelanceNest, %s!</h2>
      <p style="color:#666;font-size:16px;line-height:1.6;">
        To complete your account setup and ensure the security of your account, please verify your email address.
      </p>
      <div style="text-align:center;margin:35px 0;">
        <p style="color:#2E2E2E;font-size:16px;margin:0 0 15px 0;">Your verification code is:</p>
        <div style="display:inline-block;background:linear-gradient(135deg,#FF6B00 0%%,#FF9F45 100%%);padding:20px 40px;border-radius:12px;">
          <span style="color:white;font-size:32px;font-weight:bold;letter-spacing:8px;font-family:'Courier New',monospace;">%s</span>
        </div>
        <p style="color:#999;font-size:14px;margin:15px 0 0 0;">This code will expire in 10 minutes</p>
      </div>
      <p style="color:#666;font-size:14px;line-height:1.6;">
        If you didn't create an account with FreelanceNest, please ignore this email. The verification code will expire automatically.
      </p>
    </div>
    <div style="background-color:#2E2E2E;padding:30px 20px;text-align:center;">
      <p style="color:#999;font-size:14px;margin:0;">© 2025 FreelanceNest. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`, userName, code)
}
