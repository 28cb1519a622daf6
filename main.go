package main

import (
	"context"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/freelancenest/nest/config"
	"github.com/freelancenest/nest/db"
	"github.com/freelancenest/nest/mailingservices"
	"github.com/freelancenest/nest/server"
	"github.com/freelancenest/nest/services"
	"github.com/freelancenest/nest/services/inbox"
	"google.golang.org/api/option"
)

// initMessaging sets up Firebase Cloud Messaging. Push delivery is optional:
// without credentials the server runs and notifications stay silent.
func initMessaging(conf *config.Config) *messaging.Client {
	credentials := conf.GoogleApplicationCredentials
	if credentials == "" {
		credentials = "./google-services.json"
	}

	opt := option.WithCredentialsFile(credentials)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("firebase unavailable, push notifications disabled: %v", err)
		return nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("firebase messaging unavailable, push notifications disabled: %v", err)
		return nil
	}
	log.Println("Firebase Messaging client initialized")
	return client
}

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	messagingClient := initMessaging(conf)

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)
	if err := db.SeedRoles(gormDB.DB); err != nil {
		log.Fatalf("error seeding roles: %v", err)
	}

	authRepo := db.NewAuthRepo(gormDB)
	convRepo := db.NewConversationRepo(gormDB)
	msgRepo := db.NewMessageRepo(gormDB)
	gigRepo := db.NewGigRepo(gormDB)

	broker := inbox.NewBroker()

	otpService := services.NewOTPService(mailgunClient, conf.OTPExpirySeconds)
	authService := services.NewAuthService(authRepo, otpService, mailgunClient, conf)
	messageService := services.NewMessageService(authRepo, convRepo, msgRepo, broker)
	mediaService := services.NewMediaService(conf)
	gigService := services.NewGigService(gigRepo)

	s := &server.Server{
		Config:          conf,
		Mail:            mailgunClient,
		AuthRepository:  authRepo,
		AuthService:     authService,
		OTPService:      otpService,
		MessageService:  messageService,
		MediaService:    mediaService,
		GigService:      gigService,
		Broker:          broker,
		MessagingClient: messagingClient,
		DB:              db.GormDB{},
	}

	s.Start()
}
