package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/freelancenest/nest/config"
	"github.com/freelancenest/nest/db"
	"github.com/freelancenest/nest/mailingservices"
	"github.com/freelancenest/nest/services"
	"github.com/freelancenest/nest/services/inbox"
)

// Server wires the HTTP layer to the services and repositories.
type Server struct {
	Config          *config.Config
	Mail            mailingservices.Mailer
	AuthRepository  db.AuthRepository
	AuthService     services.AuthService
	OTPService      services.OTPService
	MessageService  services.MessageService
	MediaService    services.MediaService
	GigService      services.GigService
	Broker          *inbox.Broker
	MessagingClient *messaging.Client
	DB              db.GormDB
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before exiting.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
