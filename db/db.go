package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Asia/Kolkata",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uuid.New(), Name: models.RoleAdmin},
		{ID: uuid.New(), Name: models.RoleUser},
	}

	for _, role := range roles {
		if err := db.FirstOrCreate(&role, models.Role{Name: role.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedNotificationTemplates installs the stock templates the convenience
// notifiers depend on. Existing rows are left alone so admin edits survive
// restarts.
func SeedNotificationTemplates(db *gorm.DB) error {
	templates := []models.NotificationTemplate{
		{
			ID:                   uuid.New(),
			Name:                 "Report Ready",
			TemplateKey:          "report_ready",
			TitleTemplate:        "Your {{reportType}} report is ready",
			MessageTemplate:      "The {{reportType}} report you ordered for {{propertyTitle}} is ready to download.",
			EmailSubjectTemplate: "Your {{reportType}} report for {{propertyTitle}} is ready",
			EmailBodyTemplate:    "<p>Hello,</p><p>The {{reportType}} report you ordered for <b>{{propertyTitle}}</b> is ready.</p><p><a href=\"{{actionUrl}}\">Download your report</a></p>",
			RequiresEmail:        true,
			Type:                 models.NotificationTypeSuccess,
			Category:             models.CategoryReport,
			Priority:             models.PriorityHigh,
			IsActive:             true,
		},
		{
			ID:                   uuid.New(),
			Name:                 "Booking Confirmed",
			TemplateKey:          "booking_confirmed",
			TitleTemplate:        "Site visit confirmed",
			MessageTemplate:      "Your site visit for {{propertyTitle}} has been confirmed.",
			EmailSubjectTemplate: "Site visit confirmed for {{propertyTitle}}",
			EmailBodyTemplate:    "<p>Hello,</p><p>Your site visit for <b>{{propertyTitle}}</b> has been confirmed.</p><p><a href=\"{{actionUrl}}\">View your booking</a></p>",
			RequiresEmail:        true,
			Type:                 models.NotificationTypeSuccess,
			Category:             models.CategoryBooking,
			Priority:             models.PriorityMedium,
			IsActive:             true,
		},
		{
			ID:                   uuid.New(),
			Name:                 "Payment Received",
			TemplateKey:          "payment_received",
			TitleTemplate:        "Payment received",
			MessageTemplate:      "We received your payment of {{amount}} towards {{description}}.",
			EmailSubjectTemplate: "Payment received - {{amount}}",
			EmailBodyTemplate:    "<p>Hello,</p><p>We received your payment of <b>{{amount}}</b> towards {{description}}.</p>",
			RequiresEmail:        true,
			Type:                 models.NotificationTypeSuccess,
			Category:             models.CategoryPayment,
			Priority:             models.PriorityMedium,
			IsActive:             true,
		},
		{
			ID:              uuid.New(),
			Name:            "System Message",
			TemplateKey:     "system_message",
			TitleTemplate:   "{{title}}",
			MessageTemplate: "{{message}}",
			Type:            models.NotificationTypeInfo,
			Category:        models.CategorySystem,
			Priority:        models.PriorityMedium,
			IsActive:        true,
		},
	}

	for _, tmpl := range templates {
		var existing models.NotificationTemplate
		err := db.Where("template_key = ?", tmpl.TemplateKey).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&tmpl).Error; err != nil {
			return fmt.Errorf("seeding template %s: %v", tmpl.TemplateKey, err)
		}
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Blacklist{},
		&models.Property{},
		&models.ReportOrder{},
		&models.Booking{},
		&models.Payment{},
		&models.Lead{},
		&models.Notification{},
		&models.NotificationTemplate{},
		&models.NotificationPreferences{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}

	if err := SeedNotificationTemplates(db); err != nil {
		return fmt.Errorf("seeding notification templates error: %v", err)
	}

	return nil
}
