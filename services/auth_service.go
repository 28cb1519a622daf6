package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/freelancenest/nest/config"
	"github.com/freelancenest/nest/db"
	apiError "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/mailingservices"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/services/jwt"
	"github.com/freelancenest/nest/services/payment"
	"github.com/freelancenest/nest/services/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles signup, login and everything hanging off a user
// account: profiles, notification consent, payment methods, portfolio.
type AuthService interface {
	SignupUser(ctx context.Context, user *models.User) (*models.SignupResponse, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error)
	CompleteEmailVerification(email string) *apiError.Error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, detail *models.EditProfileRequest) error
	UpdateNotifyPermission(userID uint, state string) *apiError.Error
	UpdateDeviceToken(userID uint, token string) error
	UpsertFreelancerProfile(userID uint, profile *models.FreelancerProfile) error
	UpsertClientProfile(userID uint, profile *models.ClientProfile) error
	AddPaymentCard(userID uint, req *models.AddCardRequest) (*models.PaymentMethod, models.CardValidationErrors, *apiError.Error)
	ListPaymentMethods(userID uint) ([]models.PaymentMethod, error)
	DeletePaymentMethod(userID, methodID uint) *apiError.Error
	SetDefaultPaymentMethod(userID, methodID uint) *apiError.Error
	ReplacePortfolio(userID uint, items []models.PortfolioItem) error
	ListPortfolio(userID uint) ([]models.PortfolioItem, error)
	SendEmailForPasswordReset(ctx context.Context, request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	otp      OTPService
	mailer   mailingservices.Mailer
}

// NewAuthService instantiates an auth service
func NewAuthService(authRepo db.AuthRepository, otp OTPService, mailer mailingservices.Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		otp:      otp,
		mailer:   mailer,
	}
}

// SignupUser creates the account and then dispatches the verification code.
// A mail failure does not roll the account back; it is reported in the
// response so the client can offer a resend.
func (s *authService) SignupUser(ctx context.Context, user *models.User) (*models.SignupResponse, *apiError.Error) {
	if user == nil || user.Email == "" {
		return nil, apiError.New("invalid signup payload", http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueConstraintError(err)
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""
	if user.NotifyPermission == "" {
		user.NotifyPermission = "default"
	}

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	resp := &models.SignupResponse{
		UserResponse: models.UserResponse{
			ID:          created.ID,
			Fullname:    created.Fullname,
			Username:    created.Username,
			Email:       created.Email,
			AccountType: created.AccountType,
			IsVerified:  created.IsVerified,
		},
	}

	if _, otpErr := s.otp.SendOTP(ctx, created.Email, created.Fullname); otpErr != nil {
		resp.OTPSent = false
		resp.OTPMessage = "account created but verification email could not be sent"
	} else {
		resp.OTPSent = true
		resp.OTPMessage = "verification code sent"
	}
	return resp, nil
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	if !foundUser.IsEmailActive {
		return nil, apiError.New("email not verified", http.StatusForbidden)
	}

	return a.buildLoginResponse(foundUser)
}

// GoogleLoginUser signs the user in by their Google identity, creating the
// account on first contact. The handler has already exchanged and checked
// the authorization code.
func (a *authService) GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.createGoogleUser(loginRequest.Email, loginRequest.Fullname)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}
	return a.buildLoginResponse(foundUser)
}

func (a *authService) createGoogleUser(email, fullname string) (*models.LoginResponse, *apiError.Error) {
	username := strings.Split(email, "@")[0]
	if len(username) < 2 {
		username = username + "user"
	}
	if fullname == "" {
		fullname = "Google User"
	}

	newUser := &models.User{
		Email:         email,
		Fullname:      fullname,
		Username:      username,
		AccountType:   models.AccountTypeFreelancer,
		IsSocial:      true,
		IsEmailActive: true,
		IsVerified:    true,
	}

	created, err := a.authRepo.CreateUser(newUser)
	if err != nil {
		log.Printf("Error creating google user: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return a.buildLoginResponse(created)
}

func (a *authService) buildLoginResponse(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, a.Config.JWTSecret, user.AccountType, user.ID)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", user.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:          user.ID,
			Fullname:    user.Fullname,
			Username:    user.Username,
			Email:       user.Email,
			AccountType: user.AccountType,
			IsVerified:  user.IsVerified,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// CompleteEmailVerification flips the verification flags once the OTP checks
// out.
func (a *authService) CompleteEmailVerification(email string) *apiError.Error {
	if err := a.authRepo.MarkEmailVerified(email); err != nil {
		log.Printf("Error marking email verified for %s: %v", email, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("Error retrieving user profile: %v", err)
		return nil, err
	}
	return user, nil
}

func (a *authService) EditUserProfile(userID uint, detail *models.EditProfileRequest) error {
	return a.authRepo.EditUserProfile(userID, detail)
}

// UpdateNotifyPermission records the notification consent decision. Only the
// three known states are accepted; a granted or denied state is final until
// the user changes it themselves.
func (a *authService) UpdateNotifyPermission(userID uint, state string) *apiError.Error {
	switch state {
	case "default", "granted", "denied":
	default:
		return apiError.New("unknown notification permission state", http.StatusBadRequest)
	}
	if err := a.authRepo.UpdateNotifyPermission(userID, state); err != nil {
		log.Printf("Error updating notify permission: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) UpdateDeviceToken(userID uint, token string) error {
	return a.authRepo.UpdateDeviceToken(userID, token)
}

func (a *authService) UpsertFreelancerProfile(userID uint, profile *models.FreelancerProfile) error {
	profile.UserID = userID
	return a.authRepo.UpsertFreelancerProfile(profile)
}

func (a *authService) UpsertClientProfile(userID uint, profile *models.ClientProfile) error {
	profile.UserID = userID
	return a.authRepo.UpsertClientProfile(profile)
}

// AddPaymentCard validates the card fields and stores only brand, last four
// and expiry. Validation failures come back as a field-to-message map for
// inline display.
func (a *authService) AddPaymentCard(userID uint, req *models.AddCardRequest) (*models.PaymentMethod, models.CardValidationErrors, *apiError.Error) {
	fieldErrs := models.CardValidationErrors{}

	brand := payment.DetectBrand(req.CardNumber)
	if !payment.IsValidCardNumber(req.CardNumber) {
		fieldErrs["card_number"] = "Invalid card number"
	}
	if strings.TrimSpace(req.CardholderName) == "" {
		fieldErrs["cardholder_name"] = "Cardholder name is required"
	}
	if !payment.IsValidExpiry(req.ExpiryMonth, req.ExpiryYear, time.Now()) {
		fieldErrs["expiry"] = "Card has expired or expiry is invalid"
	}
	if !payment.IsValidCVV(req.CVV, brand) {
		fieldErrs["cvv"] = "Invalid CVV"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	number := strings.ReplaceAll(req.CardNumber, " ", "")
	method := &models.PaymentMethod{
		UserID:         userID,
		Type:           "credit_card",
		CardholderName: req.CardholderName,
		Brand:          string(brand),
		Last4:          number[len(number)-4:],
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
	}
	if err := a.authRepo.CreatePaymentMethod(method); err != nil {
		log.Printf("Error saving payment method: %v", err)
		return nil, nil, apiError.ErrInternalServerError
	}
	return method, nil, nil
}

func (a *authService) ListPaymentMethods(userID uint) ([]models.PaymentMethod, error) {
	return a.authRepo.ListPaymentMethods(userID)
}

func (a *authService) DeletePaymentMethod(userID, methodID uint) *apiError.Error {
	if err := a.authRepo.DeletePaymentMethod(userID, methodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("payment method not found", http.StatusNotFound)
		}
		log.Printf("Error deleting payment method: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) SetDefaultPaymentMethod(userID, methodID uint) *apiError.Error {
	if err := a.authRepo.SetDefaultPaymentMethod(userID, methodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("payment method not found", http.StatusNotFound)
		}
		log.Printf("Error setting default payment method: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) ReplacePortfolio(userID uint, items []models.PortfolioItem) error {
	return a.authRepo.ReplacePortfolio(userID, items)
}

func (a *authService) ListPortfolio(userID uint) ([]models.PortfolioItem, error) {
	return a.authRepo.ListPortfolio(userID)
}

// SendEmailForPasswordReset mails a one-hour reset link. An unknown email
// gets the same success response so addresses cannot be probed.
func (a *authService) SendEmailForPasswordReset(ctx context.Context, request *models.ForgotPassword) *apiError.Error {
	_, err := a.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		log.Printf("Error finding user for password reset: %v", err)
		return apiError.ErrInternalServerError
	}

	token, err := utils.GeneratePasswordResetToken(request.Email, a.Config.JWTSecret)
	if err != nil {
		log.Printf("Error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	resetLink := a.Config.BaseUrl + "/reset-password?token=" + token
	if err := a.mailer.SendPasswordReset(ctx, request.Email, resetLink); err != nil {
		return apiError.New("failed to send reset email", http.StatusBadGateway)
	}
	return nil
}

func (a *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	claims, err := utils.VerifyResetToken(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Printf("Error hashing new password: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := a.authRepo.UpdatePassword(hashed, claims.Email); err != nil {
		log.Printf("Error updating password: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
