package models

// Request/response shapes of the one-time-code verification endpoints.

type SendOTPRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,email"`
	UserName string `json:"user_name" conform:"trim"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email" conform:"trim,email"`
	OTP   string `json:"otp" binding:"required"`
}

type OTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}
