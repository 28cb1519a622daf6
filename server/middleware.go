package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/server/response"
	"github.com/freelancenest/nest/services/jwt"
	"gorm.io/gorm"
)

// Authorize validates the bearer token, rejects blacklisted tokens and loads
// the user into an explicit per-request session.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var userID uint
		switch v := accessClaims["id"].(type) {
		case float64:
			userID = uint(v)
		default:
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("Invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, errs.InActiveUserError):
				respondAndAbort(c, "inactive user", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
			default:
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			}
			return
		}

		c.Set("user", user)
		c.Set("access_token", accessToken)
		c.Set("session", &models.Session{
			UserID:      user.ID,
			DisplayName: user.Fullname,
			AccountType: user.AccountType,
		})
		c.Next()
	}
}

// currentSession pulls the session the Authorize middleware stored.
func currentSession(c *gin.Context) (*models.Session, *errs.Error) {
	v, exists := c.Get("session")
	if !exists {
		return nil, errs.New("Unauthorized", http.StatusUnauthorized)
	}
	session, ok := v.(*models.Session)
	if !ok {
		return nil, errs.ErrInternalServerError
	}
	return session, nil
}

func currentUser(c *gin.Context) (*models.User, *errs.Error) {
	v, exists := c.Get("user")
	if !exists {
		return nil, errs.New("Unauthorized", http.StatusUnauthorized)
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil, errs.ErrInternalServerError
	}
	return user, nil
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// limitOTPResend throttles resend requests per email address.
func limitOTPResend(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        otpEmailKeyFunc,
		BeforeResponse: nil,
	})
}

// otpEmailKeyFunc keys the limiter on the request body's email, restoring
// the body so the handler can read it again.
func otpEmailKeyFunc(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, err)
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
		return c.ClientIP()
	}

	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return req.Email
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// decode binds the JSON body and runs struct validation, rendering the
// first failure itself.
func decode(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.JSON(c, "bad request", http.StatusBadRequest, nil, err)
		return false
	}
	if vErrs := models.ValidateStruct(v); len(vErrs) > 0 {
		response.JSON(c, "validation failed", http.StatusBadRequest, gin.H{"errors": errorStrings(vErrs)}, nil)
		return false
	}
	return true
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
