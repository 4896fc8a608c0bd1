package services

import (
	"context"
	"fmt"
	"strings"

	"mindboard/internal/models"

	"gorm.io/gorm"
)

type FormService struct {
	db *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{db: db}
}

// FindByOption returns the questionnaires registered under option.
func (s *FormService) FindByOption(ctx context.Context, option string) ([]models.Form, error) {
	if strings.TrimSpace(option) == "" {
		return nil, fmt.Errorf("%w: option is required", ErrValidation)
	}
	var forms []models.Form
	if err := s.db.WithContext(ctx).Where("option_name = ?", option).Order("id ASC").Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}
	if len(forms) == 0 {
		return nil, fmt.Errorf("%w: no questionnaire for option %q", ErrNotFound, option)
	}
	return forms, nil
}

func (s *FormService) List(ctx context.Context) ([]models.Form, error) {
	forms := []models.Form{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}
