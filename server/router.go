package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 1})

	// verification code endpoints keep their own flat prefix
	otp := router.Group("/api")
	otp.GET("/health", s.handleOTPHealth())
	otp.POST("/send-otp", s.handleSendOTP())
	otp.POST("/verify-otp", s.handleVerifyOTP())
	otp.POST("/resend-otp", limitOTPResend(store), s.handleResendOTP())

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/google/login", s.handleGoogleLogin())
	apirouter.POST("/password/forgot", s.handleForgotPassword())
	apirouter.POST("/password/reset/:token", s.handleResetPassword())
	apirouter.GET("/gigs", s.handleListGigs())
	apirouter.GET("/jobs", s.handleListJobs())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me/updateUserProfile", s.handleEditUserProfile())
	authorized.PUT("/me/notify-permission", s.handleUpdateNotifyPermission())
	authorized.PUT("/me/device-token", s.handleUpdateDeviceToken())
	authorized.PUT("/me/onboarding/freelancer", s.handleFreelancerOnboarding())
	authorized.PUT("/me/onboarding/client", s.handleClientOnboarding())
	authorized.PUT("/upload", s.handleUploadProfileImage())

	authorized.POST("/payment-methods/card", s.handleAddPaymentCard())
	authorized.GET("/payment-methods", s.handleListPaymentMethods())
	authorized.DELETE("/payment-methods/:id", s.handleDeletePaymentMethod())
	authorized.PUT("/payment-methods/:id/default", s.handleSetDefaultPaymentMethod())

	authorized.PUT("/me/portfolio", s.handleReplacePortfolio())
	authorized.GET("/me/portfolio", s.handleListPortfolio())

	authorized.POST("/messages", s.handleSendMessage())
	authorized.GET("/messages/:otherID", s.handleListMessages())
	authorized.GET("/conversations", s.handleListConversations())
	authorized.PUT("/conversations/:otherID/read", s.handleMarkConversationRead())
	authorized.GET("/inbox/stream", s.handleInboxStream())

	authorized.POST("/gigs", s.handleCreateGig())
	authorized.POST("/jobs", s.handleCreateJob())
	authorized.POST("/proposals", s.handleCreateProposal())
	authorized.GET("/proposals", s.handleListMyProposals())
	authorized.GET("/jobs/:jobID/proposals", s.handleListJobProposals())
	authorized.PUT("/gigs/:gigID/bookmark", s.handleSaveBookmark())
	authorized.DELETE("/gigs/:gigID/bookmark", s.handleRemoveBookmark())
	authorized.GET("/bookmarks", s.handleListBookmarks())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
}
