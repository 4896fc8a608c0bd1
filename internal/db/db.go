package db

import (
	"fmt"
	"log/slog"

	"mindboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres. TranslateError lets services detect unique
// violations through gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return gdb, nil
}

// Migrate creates or updates the schema and seeds the questionnaire forms.
func Migrate(gdb *gorm.DB, log *slog.Logger) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.AIReport{},
		&models.Article{},
		&models.ArticleLike{},
		&models.Comment{},
		&models.Form{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Debug("database migration completed")

	return seedForms(gdb, log)
}

func seedForms(gdb *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := gdb.Model(&models.Form{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count forms: %w", err)
	}
	if count > 0 {
		log.Debug("forms already seeded, skipping")
		return nil
	}

	forms := []models.Form{
		{Option: "STRESS", Questions: models.StringList{
			"How often have you felt overwhelmed this month?",
			"What usually helps you recover after a hard day?",
			"Which situations make you most tense?",
		}},
		{Option: "CAREER", Questions: models.StringList{
			"What part of your work or study gives you energy?",
			"Where do you want to be in three years?",
			"What is blocking your next step?",
		}},
		{Option: "RELATIONSHIP", Questions: models.StringList{
			"Who do you talk to when something goes wrong?",
			"What do you wish people understood about you?",
			"How do you usually handle disagreements?",
		}},
	}
	if err := gdb.Create(&forms).Error; err != nil {
		return fmt.Errorf("seed forms: %w", err)
	}
	log.Info("initial forms created", "count", len(forms))
	return nil
}
