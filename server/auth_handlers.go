package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/server/response"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if !decode(c, &user) {
			return
		}

		resp, apiErr := s.AuthService.SignupUser(c.Request.Context(), &user)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "signup successful", http.StatusCreated, resp, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !decode(c, &req) {
			return
		}

		resp, apiErr := s.AuthService.LoginUser(&req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, resp, nil)
	}
}

// handleGoogleLogin exchanges the authorization code, fetches the verified
// profile from Google and signs the user in, creating the account on first
// contact.
func (s *Server) handleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GoogleLoginRequest
		if !decode(c, &req) {
			return
		}

		if req.Code != "" {
			email, fullname, err := s.exchangeGoogleCode(req.Code)
			if err != nil {
				log.Printf("google code exchange failed: %v", err)
				response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid authorization code", http.StatusUnauthorized))
				return
			}
			req.Email = email
			if req.Fullname == "" {
				req.Fullname = fullname
			}
		}
		if req.Email == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("email or authorization code required", http.StatusBadRequest))
			return
		}

		resp, apiErr := s.AuthService.GoogleLoginUser(&req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, resp, nil)
	}
}

func (s *Server) exchangeGoogleCode(code string) (email, fullname string, err error) {
	conf := &oauth2.Config{
		ClientID:     s.Config.GoogleClientID,
		ClientSecret: s.Config.GoogleClientSecret,
		RedirectURL:  s.Config.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	token, err := conf.Exchange(oauth2.NoContext, code)
	if err != nil {
		return "", "", fmt.Errorf("exchange code: %v", err)
	}

	client := conf.Client(oauth2.NoContext, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		return "", "", fmt.Errorf("fetch userinfo: %v", err)
	}
	defer resp.Body.Close()

	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("decode userinfo: %v", err)
	}
	if !info.EmailVerified {
		return "", "", fmt.Errorf("google email not verified")
	}
	return info.Email, info.Name, nil
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString("access_token")
		if token == "" {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		blacklist := &models.Blacklist{Token: token}
		if err := s.AuthRepository.AddToBlackList(blacklist); err != nil {
			log.Printf("logout: blacklist token: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		user, err := s.AuthService.GetUserProfile(session.UserID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile retrieved", http.StatusOK, user, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var req models.EditProfileRequest
		if !decode(c, &req) {
			return
		}
		if err := s.AuthService.EditUserProfile(session.UserID, &req); err != nil {
			log.Printf("edit profile: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUpdateNotifyPermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var req struct {
			State string `json:"state" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "bad request", http.StatusBadRequest, nil, err)
			return
		}
		if apiErr := s.AuthService.UpdateNotifyPermission(session.UserID, req.State); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "notification permission updated", http.StatusOK, gin.H{"state": req.State}, nil)
	}
}

func (s *Server) handleUpdateDeviceToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var req struct {
			DeviceToken string `json:"device_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "bad request", http.StatusBadRequest, nil, err)
			return
		}
		if err := s.AuthService.UpdateDeviceToken(session.UserID, req.DeviceToken); err != nil {
			log.Printf("update device token: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "device token updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleFreelancerOnboarding() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		if session.AccountType != models.AccountTypeFreelancer {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("freelancer account required", http.StatusForbidden))
			return
		}
		var profile models.FreelancerProfile
		if !decode(c, &profile) {
			return
		}
		if err := s.AuthService.UpsertFreelancerProfile(session.UserID, &profile); err != nil {
			log.Printf("freelancer onboarding: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "freelancer profile saved", http.StatusOK, profile, nil)
	}
}

func (s *Server) handleClientOnboarding() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		if session.AccountType != models.AccountTypeClient {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("client account required", http.StatusForbidden))
			return
		}
		var profile models.ClientProfile
		if !decode(c, &profile) {
			return
		}
		if err := s.AuthService.UpsertClientProfile(session.UserID, &profile); err != nil {
			log.Printf("client onboarding: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "client profile saved", http.StatusOK, profile, nil)
	}
}

func (s *Server) handleAddPaymentCard() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var req models.AddCardRequest
		if !decode(c, &req) {
			return
		}

		method, fieldErrs, apiErr := s.AuthService.AddPaymentCard(session.UserID, &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		if len(fieldErrs) > 0 {
			response.JSON(c, "card validation failed", http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs}, nil)
			return
		}
		response.JSON(c, "card added", http.StatusCreated, method, nil)
	}
}

func (s *Server) handleListPaymentMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		methods, err := s.AuthService.ListPaymentMethods(session.UserID)
		if err != nil {
			log.Printf("list payment methods: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "payment methods retrieved", http.StatusOK, methods, nil)
	}
}

func (s *Server) handleDeletePaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		methodID, err := parseUintParam(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		if apiErr := s.AuthService.DeletePaymentMethod(session.UserID, methodID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "payment method removed", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleSetDefaultPaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		methodID, err := parseUintParam(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		if apiErr := s.AuthService.SetDefaultPaymentMethod(session.UserID, methodID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "default payment method updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleReplacePortfolio() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var items []models.PortfolioItem
		if err := c.ShouldBindJSON(&items); err != nil {
			response.JSON(c, "bad request", http.StatusBadRequest, nil, err)
			return
		}
		if err := s.AuthService.ReplacePortfolio(session.UserID, items); err != nil {
			log.Printf("replace portfolio: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "portfolio saved", http.StatusOK, items, nil)
	}
}

func (s *Server) handleListPortfolio() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		items, err := s.AuthService.ListPortfolio(session.UserID)
		if err != nil {
			log.Printf("list portfolio: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "portfolio retrieved", http.StatusOK, items, nil)
	}
}

func (s *Server) handleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ForgotPassword
		if !decode(c, &req) {
			return
		}
		if apiErr := s.AuthService.SendEmailForPasswordReset(c.Request.Context(), &req); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "if the email exists, a reset link has been sent", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		var req models.ResetPassword
		if !decode(c, &req) {
			return
		}
		if apiErr := s.AuthService.ResetPassword(&req, token); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "password reset successful", http.StatusOK, nil, nil)
	}
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(v), err
}

func parseUintQuery(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	return uint(v), err
}
