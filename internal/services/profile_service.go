package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Upsert creates the user's profile or overwrites every scalar, skills and
// social field of the existing one. Experience and education are untouched.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest) (*models.Profile, error) {
	if err := requireText(
		requiredField{"status", req.Status, "status is required"},
		requiredField{"skills", strings.Join(splitSkills(req.Skills), ","), "skills is required"},
	); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case err == nil:
			applyProfileRequest(&profile, req)
			return tx.Omit(clause.Associations).Save(&profile).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = models.Profile{
				UserID:     userID,
				Experience: datatypes.JSONSlice[models.Experience]{},
				Education:  datatypes.JSONSlice[models.Education]{},
			}
			applyProfileRequest(&profile, req)
			return tx.Omit(clause.Associations).Create(&profile).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return loadProfile(s.db.WithContext(ctx), userID)
}

// List returns every profile in creation order, each populated with its
// owner's name and avatar.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).
		Preload("User", selectOwner).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID uuid.UUID, req *dto.ExperienceRequest) (*models.Profile, error) {
	if err := requireText(
		requiredField{"title", req.Title, "Title is required"},
		requiredField{"company", req.Company, "Company is required"},
	); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(req.From, req.To, req.Current)
	if err != nil {
		return nil, err
	}

	entry := models.Experience{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    optional(req.Location),
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: optional(req.Description),
	}

	return s.mutate(ctx, userID, func(p *models.Profile) (string, interface{}, error) {
		p.Experience = append(datatypes.JSONSlice[models.Experience]{entry}, p.Experience...)
		return "experience", p.Experience, nil
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, experienceID uuid.UUID) (*models.Profile, error) {
	return s.mutate(ctx, userID, func(p *models.Profile) (string, interface{}, error) {
		rest, ok := removeByID(p.Experience, experienceID, func(e models.Experience) uuid.UUID { return e.ID })
		if !ok {
			return "", nil, ErrExperienceNotFound
		}
		p.Experience = rest
		return "experience", p.Experience, nil
	})
}

func (s *ProfileService) AddEducation(ctx context.Context, userID uuid.UUID, req *dto.EducationRequest) (*models.Profile, error) {
	if err := requireText(
		requiredField{"school", req.School, "School is required"},
		requiredField{"degree", req.Degree, "Degree is required"},
		requiredField{"fieldofstudy", req.FieldOfStudy, "Field of study is required"},
	); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(req.From, req.To, req.Current)
	if err != nil {
		return nil, err
	}

	entry := models.Education{
		ID:           uuid.New(),
		School:       strings.TrimSpace(req.School),
		Degree:       strings.TrimSpace(req.Degree),
		FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  optional(req.Description),
	}

	return s.mutate(ctx, userID, func(p *models.Profile) (string, interface{}, error) {
		p.Education = append(datatypes.JSONSlice[models.Education]{entry}, p.Education...)
		return "education", p.Education, nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, educationID uuid.UUID) (*models.Profile, error) {
	return s.mutate(ctx, userID, func(p *models.Profile) (string, interface{}, error) {
		rest, ok := removeByID(p.Education, educationID, func(e models.Education) uuid.UUID { return e.ID })
		if !ok {
			return "", nil, ErrEducationNotFound
		}
		p.Education = rest
		return "education", p.Education, nil
	})
}

// DeleteAccount removes the user's posts, profile and user row in one
// transaction.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// mutate loads the profile inside a transaction, lets fn change one JSON
// column and writes that column back.
func (s *ProfileService) mutate(ctx context.Context, userID uuid.UUID, fn func(p *models.Profile) (string, interface{}, error)) (*models.Profile, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		column, value, err := fn(&profile)
		if err != nil {
			return err
		}
		return tx.Model(&profile).Omit(clause.Associations).Update(column, value).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func loadProfile(db *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("User", selectOwner).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func selectOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar")
}

func applyProfileRequest(p *models.Profile, req *dto.ProfileRequest) {
	p.Company = optional(req.Company)
	p.Website = optional(req.Website)
	p.Location = optional(req.Location)
	p.Bio = optional(req.Bio)
	p.Status = optional(req.Status)
	p.GitHubUsername = optional(req.GitHubUsername)
	p.Skills = splitSkills(req.Skills)
	p.Social = models.Social{
		YouTube:   optional(req.YouTube),
		Twitter:   optional(req.Twitter),
		Facebook:  optional(req.Facebook),
		LinkedIn:  optional(req.LinkedIn),
		Instagram: optional(req.Instagram),
	}
}

// optional maps a blank input to the absent marker (nil).
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// splitSkills turns "go, sql ,,docker" into [go sql docker]; blank input is nil.
func splitSkills(raw string) datatypes.JSONSlice[string] {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var skills datatypes.JSONSlice[string]
	for _, part := range strings.Split(raw, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func parsePeriod(fromRaw, toRaw string, current bool) (time.Time, *time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, &ValidationError{Fields: []dto.FieldError{{Msg: "From date is invalid", Param: "from"}}}
	}
	if current || strings.TrimSpace(toRaw) == "" {
		return from, nil, nil
	}

	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, &ValidationError{Fields: []dto.FieldError{{Msg: "To date is invalid", Param: "to"}}}
	}
	if to.Before(from) {
		return time.Time{}, nil, &ValidationError{Fields: []dto.FieldError{{Msg: "To date must not be before From date", Param: "to"}}}
	}
	return from, &to, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func removeByID[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) ([]T, bool) {
	for i, item := range items {
		if idOf(item) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}
