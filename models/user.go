package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Account types discriminate the profile shape attached to a user.
const (
	AccountTypeFreelancer = "freelancer"
	AccountTypeClient     = "client"
)

// User represents a user of the application
type User struct {
	Model
	Fullname       string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username       string `json:"username" binding:"required,min=2" conform:"trim,lower"`
	Email          string `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,email"`
	Password       string `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string `json:"-"`
	AccountType    string `json:"account_type" binding:"required,oneof=freelancer client"`
	IsEmailActive  bool   `json:"-"`
	IsSocial       bool   `json:"-"`
	IsVerified     bool   `json:"is_verified"`
	ThumbNailURL   string `json:"thumbnail_url,omitempty"`
	DeviceToken    string `json:"-"`
	// NotifyPermission is the tri-state browser/device notification consent:
	// "default", "granted" or "denied".
	NotifyPermission string    `json:"notify_permission" gorm:"default:default"`
	Online           bool      `json:"online"`
	RoleID           uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role             Role      `gorm:"foreignKey:RoleID" json:"role"`

	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:UserID" json:"freelancer_profile,omitempty"`
	ClientProfile     *ClientProfile     `gorm:"foreignKey:UserID" json:"client_profile,omitempty"`
	PaymentMethods    []PaymentMethod    `gorm:"foreignKey:UserID" json:"payment_methods,omitempty"`
	PortfolioItems    []PortfolioItem    `gorm:"foreignKey:UserID" json:"portfolio,omitempty"`
}

// FreelancerProfile holds the freelancer side of the account-type union.
type FreelancerProfile struct {
	Model
	UserID     uint    `gorm:"uniqueIndex" json:"user_id"`
	Title      string  `json:"title"`
	Overview   string  `json:"overview"`
	Skills     string  `json:"skills"`
	HourlyRate float64 `json:"hourly_rate"`
	Category   string  `json:"category"`
}

// ClientProfile holds the client side of the account-type union.
type ClientProfile struct {
	Model
	UserID      uint   `gorm:"uniqueIndex" json:"user_id"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
	HiringNeeds string `json:"hiring_needs"`
}

// VerifyPassword checks the supplied plain password against the stored hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Code     string `json:"code"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Fullname    string `json:"fullname"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	IsVerified  bool   `json:"is_verified"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignupResponse reports the primary result plus the OTP dispatch outcome so
// a failed verification mail is surfaced distinctly from a failed signup.
type SignupResponse struct {
	UserResponse
	OTPSent    bool   `json:"otp_sent"`
	OTPMessage string `json:"otp_message,omitempty"`
}

type EditProfileRequest struct {
	Fullname     string `json:"fullname" conform:"trim"`
	Username     string `json:"username" conform:"trim,lower"`
	ThumbNailURL string `json:"thumbnail_url"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Session is the explicit per-request session context carried instead of
// ambient storage: built once after authentication, torn down with it.
type Session struct {
	UserID      uint
	DisplayName string
	AccountType string
}
