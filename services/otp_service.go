package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	apiError "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/mailingservices"
	"github.com/freelancenest/nest/models"
)

const (
	otpLength        = 6
	otpMaxAttempts   = 5
	otpResendWindow  = 60 * time.Second
	defaultOTPExpiry = 600 * time.Second
)

// OTPService issues, verifies and re-issues one-time email codes.
type OTPService interface {
	SendOTP(ctx context.Context, email, userName string) (*models.OTPResponse, *apiError.Error)
	VerifyOTP(ctx context.Context, email, code string) (*models.OTPResponse, *apiError.Error)
	ResendOTP(ctx context.Context, email, userName string) (*models.OTPResponse, *apiError.Error)
}

type otpEntry struct {
	code     string
	issuedAt time.Time
	expires  time.Time
	attempts int
}

type otpService struct {
	mailer mailingservices.Mailer
	expiry time.Duration
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]*otpEntry
}

// NewOTPService instantiates the service. expirySeconds of zero falls back
// to the ten minute default.
func NewOTPService(mailer mailingservices.Mailer, expirySeconds int) OTPService {
	expiry := defaultOTPExpiry
	if expirySeconds > 0 {
		expiry = time.Duration(expirySeconds) * time.Second
	}
	return &otpService{
		mailer:  mailer,
		expiry:  expiry,
		now:     time.Now,
		pending: make(map[string]*otpEntry),
	}
}

func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n), nil
}

func (s *otpService) issue(email string) (*otpEntry, error) {
	code, err := generateOTPCode()
	if err != nil {
		return nil, err
	}
	now := s.now()
	entry := &otpEntry{code: code, issuedAt: now, expires: now.Add(s.expiry)}
	s.mu.Lock()
	s.pending[email] = entry
	s.mu.Unlock()
	return entry, nil
}

func (s *otpService) SendOTP(ctx context.Context, email, userName string) (*models.OTPResponse, *apiError.Error) {
	entry, err := s.issue(email)
	if err != nil {
		log.Printf("otp: generate code for %s: %v", email, err)
		return nil, apiError.New("could not generate OTP", http.StatusInternalServerError)
	}
	if err := s.mailer.SendOTP(ctx, email, userName, entry.code); err != nil {
		s.mu.Lock()
		delete(s.pending, email)
		s.mu.Unlock()
		log.Printf("otp: send mail to %s: %v", email, err)
		return nil, apiError.New("failed to send OTP email", http.StatusBadGateway)
	}
	return &models.OTPResponse{
		Success:   true,
		Message:   "OTP sent successfully",
		ExpiresIn: int(s.expiry / time.Second),
	}, nil
}

func (s *otpService) VerifyOTP(_ context.Context, email, code string) (*models.OTPResponse, *apiError.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[email]
	if !ok {
		return nil, apiError.New("No OTP found for this email. Please request a new one.", http.StatusBadRequest)
	}
	if s.now().After(entry.expires) {
		delete(s.pending, email)
		return nil, apiError.New("OTP has expired. Please request a new one.", http.StatusBadRequest)
	}
	if entry.attempts >= otpMaxAttempts {
		delete(s.pending, email)
		return nil, apiError.New("Too many failed attempts. Please request a new OTP.", http.StatusBadRequest)
	}
	if entry.code != code {
		entry.attempts++
		remaining := otpMaxAttempts - entry.attempts
		if remaining <= 0 {
			delete(s.pending, email)
			return nil, apiError.New("Too many failed attempts. Please request a new OTP.", http.StatusBadRequest)
		}
		return nil, apiError.New(fmt.Sprintf("Invalid OTP. %d attempts remaining.", remaining), http.StatusBadRequest)
	}

	delete(s.pending, email)
	return &models.OTPResponse{Success: true, Message: "OTP verified successfully"}, nil
}

func (s *otpService) ResendOTP(ctx context.Context, email, userName string) (*models.OTPResponse, *apiError.Error) {
	s.mu.Lock()
	if entry, ok := s.pending[email]; ok {
		elapsed := s.now().Sub(entry.issuedAt)
		if elapsed < otpResendWindow {
			wait := int((otpResendWindow - elapsed).Round(time.Second) / time.Second)
			s.mu.Unlock()
			return nil, apiError.New(fmt.Sprintf("Please wait %d seconds before requesting a new OTP.", wait), http.StatusTooManyRequests)
		}
	}
	s.mu.Unlock()
	return s.SendOTP(ctx, email, userName)
}
