package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/models"
	"github.com/google/uuid"
)

// ProfileRequest is the flat create/update body. Every optional field that
// is blank is stored as absent.
type ProfileRequest struct {
	Company        string `json:"company" form:"company"`
	Website        string `json:"website" form:"website"`
	Location       string `json:"location" form:"location"`
	Bio            string `json:"bio" form:"bio"`
	Status         string `json:"status" form:"status" validate:"notblank"`
	GitHubUsername string `json:"githubusername" form:"githubusername"`
	Skills         string `json:"skills" form:"skills" validate:"notblank,csvlist"`
	YouTube        string `json:"youtube" form:"youtube"`
	Twitter        string `json:"twitter" form:"twitter"`
	Facebook       string `json:"facebook" form:"facebook"`
	LinkedIn       string `json:"linkedin" form:"linkedin"`
	Instagram      string `json:"instagram" form:"instagram"`
}

func (ProfileRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"status.notblank": "status is required",
		"skills.notblank": "skills is required",
		"skills.csvlist":  "skills is required",
	}
}

type ExperienceRequest struct {
	Title       string `json:"title" form:"title" validate:"notblank"`
	Company     string `json:"company" form:"company" validate:"notblank"`
	Location    string `json:"location" form:"location"`
	From        string `json:"from" form:"from" validate:"notblank"`
	To          string `json:"to" form:"to"`
	Current     bool   `json:"current" form:"current"`
	Description string `json:"description" form:"description"`
}

func (ExperienceRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"title.notblank":   "Title is required",
		"company.notblank": "Company is required",
		"from.notblank":    "From date is required",
	}
}

type EducationRequest struct {
	School       string `json:"school" form:"school" validate:"notblank"`
	Degree       string `json:"degree" form:"degree" validate:"notblank"`
	FieldOfStudy string `json:"fieldofstudy" form:"fieldofstudy" validate:"notblank"`
	From         string `json:"from" form:"from" validate:"notblank"`
	To           string `json:"to" form:"to"`
	Current      bool   `json:"current" form:"current"`
	Description  string `json:"description" form:"description"`
}

func (EducationRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"school.notblank":       "School is required",
		"degree.notblank":       "Degree is required",
		"fieldofstudy.notblank": "Field of study is required",
		"from.notblank":         "From date is required",
	}
}

// ProfileOwner is the populated user reference on a profile.
type ProfileOwner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type ProfileResponse struct {
	ID             uuid.UUID           `json:"id"`
	User           ProfileOwner        `json:"user"`
	Company        *string             `json:"company"`
	Website        *string             `json:"website"`
	Location       *string             `json:"location"`
	Bio            *string             `json:"bio"`
	Status         *string             `json:"status"`
	GitHubUsername *string             `json:"githubusername"`
	Skills         []string            `json:"skills"`
	Social         models.Social       `json:"social"`
	Experience     []models.Experience `json:"experience"`
	Education      []models.Education  `json:"education"`
	Date           time.Time           `json:"date"`
}

func NewProfileResponse(p *models.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID: p.ID,
		User: ProfileOwner{
			ID:     p.UserID,
			Name:   p.User.Name,
			Avatar: p.User.Avatar,
		},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Social:         p.Social,
		Experience:     []models.Experience(p.Experience),
		Education:      []models.Education(p.Education),
		Date:           p.CreatedAt,
	}
	if p.Skills != nil {
		resp.Skills = []string(p.Skills)
	}
	if resp.Experience == nil {
		resp.Experience = []models.Experience{}
	}
	if resp.Education == nil {
		resp.Education = []models.Education{}
	}
	return resp
}

func NewProfileListResponse(profiles []models.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, NewProfileResponse(&profiles[i]))
	}
	return out
}
