package main

import (
	"log"

	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/mailingservices"
	"github.com/propvista/backend/server"
	"github.com/propvista/backend/services"
	"github.com/propvista/backend/smsservices"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	smsClient := smsservices.NewSNSClient(conf)

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	propertyRepo := db.NewPropertyRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	bookingRepo := db.NewBookingRepo(gormDB)
	leadRepo := db.NewLeadRepo(gormDB)

	mediaRepo, err := db.NewMediaRepo(conf)
	if err != nil {
		log.Fatalf("initializing media storage: %v", err)
	}

	hub := server.NewHub()

	notificationService := services.NewNotificationService(notificationRepo, mailgunClient, conf)
	authService := services.NewAuthService(authRepo, mailgunClient, conf)
	propertyService := services.NewPropertyService(propertyRepo, conf)
	reportService := services.NewReportService(reportRepo, propertyRepo, notificationService, hub, conf)
	bookingService := services.NewBookingService(bookingRepo, propertyRepo, authRepo, notificationRepo, notificationService, smsClient, hub, conf)
	leadService := services.NewLeadService(leadRepo, notificationService, hub, conf)
	mediaService := services.NewMediaService(mediaRepo, propertyRepo, conf)
	pushService := services.NewPushService(conf)

	s := &server.Server{
		Config:                 conf,
		Mail:                   mailgunClient,
		AuthRepository:         authRepo,
		NotificationRepository: notificationRepo,
		AuthService:            authService,
		PropertyService:        propertyService,
		ReportService:          reportService,
		BookingService:         bookingService,
		LeadService:            leadService,
		MediaService:           mediaService,
		NotificationService:    notificationService,
		PushService:            pushService,
		Hub:                    hub,
	}

	s.Start()
}
