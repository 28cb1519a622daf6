package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/freelancenest/nest/models"
)

// The verification endpoints answer in their own flat shape rather than the
// envelope: {success, message, expires_in} mirrors what the client's signup
// flow consumes.

func (s *Server) handleOTPHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "otp"})
	}
}

func (s *Server) handleSendOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.OTPResponse{Success: false, Message: "A valid email is required"})
			return
		}

		resp, apiErr := s.OTPService.SendOTP(c.Request.Context(), req.Email, req.UserName)
		if apiErr != nil {
			c.JSON(apiErr.Status, models.OTPResponse{Success: false, Message: apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) handleVerifyOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.OTPResponse{Success: false, Message: "Email and OTP are required"})
			return
		}

		resp, apiErr := s.OTPService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if apiErr != nil {
			c.JSON(apiErr.Status, models.OTPResponse{Success: false, Message: apiErr.Message})
			return
		}

		if apiErr := s.AuthService.CompleteEmailVerification(req.Email); apiErr != nil {
			c.JSON(apiErr.Status, models.OTPResponse{Success: false, Message: apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) handleResendOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.OTPResponse{Success: false, Message: "A valid email is required"})
			return
		}

		resp, apiErr := s.OTPService.ResendOTP(c.Request.Context(), req.Email, req.UserName)
		if apiErr != nil {
			c.JSON(apiErr.Status, models.OTPResponse{Success: false, Message: apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
