package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"mindboard/internal/models"

	"gorm.io/gorm"
)

const (
	maxNickLength     = 10
	maxFavorites      = 3
	maxFavoriteLength = 30
)

var (
	validGenders = []string{models.GenderMale, models.GenderFemale, models.GenderOther}
	validJobs    = []string{models.JobStudent, models.JobHousewife, models.JobWorker, models.JobProfessional, models.JobOther}
)

// RegisterInput is the profile submitted at sign-up.
type RegisterInput struct {
	UserNum  string
	Nick     string
	Age      int
	Gender   string
	Job      string
	Favorite []string
}

func (in RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.UserNum) == "":
		return fmt.Errorf("%w: userNum is required", ErrValidation)
	case strings.TrimSpace(in.Nick) == "":
		return fmt.Errorf("%w: nick is required", ErrValidation)
	case utf8.RuneCountInString(in.Nick) > maxNickLength:
		return fmt.Errorf("%w: nick must be at most %d characters", ErrValidation, maxNickLength)
	case in.Age < 0:
		return fmt.Errorf("%w: age must not be negative", ErrValidation)
	case !oneOf(in.Gender, validGenders):
		return fmt.Errorf("%w: gender must be one of %s", ErrValidation, strings.Join(validGenders, ", "))
	case !oneOf(in.Job, validJobs):
		return fmt.Errorf("%w: job must be one of %s", ErrValidation, strings.Join(validJobs, ", "))
	case len(in.Favorite) > maxFavorites:
		return fmt.Errorf("%w: at most %d favorites are allowed", ErrValidation, maxFavorites)
	}
	for _, f := range in.Favorite {
		if n := utf8.RuneCountInString(f); n == 0 || n > maxFavoriteLength {
			return fmt.Errorf("%w: favorites must be 1 to %d characters", ErrValidation, maxFavoriteLength)
		}
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

type UserService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserService(db *gorm.DB, opts ...Option) *UserService {
	o := newOptions(opts)
	return &UserService{db: db, logger: o.logger}
}

// Register creates a user. userNum and nick must both be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.FindByNum(ctx, in.UserNum); err == nil {
		return nil, fmt.Errorf("%w: user is already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := s.NickAvailable(ctx, in.Nick); err != nil {
		return nil, err
	}

	favorite := models.StringList{}
	if in.Favorite != nil {
		favorite = models.StringList(in.Favorite)
	}
	user := models.User{
		UserNum:  in.UserNum,
		Nick:     in.Nick,
		Age:      in.Age,
		Gender:   in.Gender,
		Job:      in.Job,
		Favorite: favorite,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: userNum or nick is already taken", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", "user_num", user.UserNum)
	return &user, nil
}

func (s *UserService) FindByNum(ctx context.Context, userNum string) (*models.User, error) {
	return s.findBy(ctx, "user_num", userNum)
}

func (s *UserService) FindByNick(ctx context.Context, nick string) (*models.User, error) {
	return s.findBy(ctx, "nick", nick)
}

// NickAvailable returns ErrConflict when nick is taken.
func (s *UserService) NickAvailable(ctx context.Context, nick string) error {
	if strings.TrimSpace(nick) == "" {
		return fmt.Errorf("%w: nick is required", ErrValidation)
	}
	_, err := s.FindByNick(ctx, nick)
	switch {
	case err == nil:
		return fmt.Errorf("%w: nickname is already in use", ErrConflict)
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *UserService) findBy(ctx context.Context, column, value string) (*models.User, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}
