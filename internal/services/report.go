package services

import (
	"context"
	"fmt"
	"strings"

	"mindboard/internal/models"

	"gorm.io/gorm"
)

// ReportInput is a submitted questionnaire plus the generated report text.
type ReportInput struct {
	SelectOption string
	FormData     []string
	AnswerData   []string
	ReportValue  string
}

// ReportService appends and lists AI self-assessment reports. Entries are immutable.
type ReportService struct {
	db    *gorm.DB
	users *UserService
}

func NewReportService(db *gorm.DB, users *UserService) *ReportService {
	return &ReportService{db: db, users: users}
}

func (s *ReportService) Save(ctx context.Context, userNum string, in ReportInput) (*models.AIReport, error) {
	if strings.TrimSpace(in.SelectOption) == "" || strings.TrimSpace(in.ReportValue) == "" {
		return nil, fmt.Errorf("%w: selectOption and reportValue are required", ErrValidation)
	}
	user, err := s.users.FindByNum(ctx, userNum)
	if err != nil {
		return nil, err
	}

	report := models.AIReport{
		UserID:       user.ID,
		SelectOption: in.SelectOption,
		FormData:     toList(in.FormData),
		AnswerData:   toList(in.AnswerData),
		ReportValue:  in.ReportValue,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &report, nil
}

// List returns a user's reports oldest first.
func (s *ReportService) List(ctx context.Context, userNum string) ([]models.AIReport, error) {
	user, err := s.users.FindByNum(ctx, userNum)
	if err != nil {
		return nil, err
	}
	reports := []models.AIReport{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("id ASC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func toList(in []string) models.StringList {
	if in == nil {
		return models.StringList{}
	}
	return models.StringList(in)
}
