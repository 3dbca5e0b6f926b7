package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/models"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	msgNoProfile         = "No profile found for this user!"
	msgProfileNotFound   = "Profile not found!"
	msgExperienceMissing = "Experience not found!"
	msgEducationMissing  = "Education not found!"
	msgNoGitHub          = "No GitHub Profile found!"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	githubService  *services.GitHubService
}

func NewProfileHandler(profileService *services.ProfileService, githubService *services.GitHubService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, githubService: githubService}
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return serverError(c, err)
	}

	profile, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return notFound(c, msgNoProfile)
		}
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// Upsert handles POST /api/profile.
func (h *ProfileHandler) Upsert(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return serverError(c, err)
	}

	var req dto.ProfileRequest
	if err := bind(c, &req); err != nil {
		_, werr := badInput(c, err)
		return werr
	}

	profile, err := h.profileService.Upsert(c.UserContext(), userID, &req)
	if err != nil {
		if handled, werr := badInput(c, err); handled {
			return werr
		}
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// List handles GET /api/profile.
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	profiles, err := h.profileService.List(c.UserContext())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileListResponse(profiles))
}

// ByUser handles GET /api/profile/user/:user_id. A malformed id reads as a
// missing profile.
func (h *ProfileHandler) ByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return notFound(c, msgProfileNotFound)
	}

	profile, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return notFound(c, msgProfileNotFound)
		}
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// Delete handles DELETE /api/profile: posts, profile and user go together.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return serverError(c, err)
	}

	if err := h.profileService.DeleteAccount(c.UserContext(), userID); err != nil {
		return serverError(c, err)
	}
	return c.JSON(dto.ErrorResponse{Msg: "User Deleted!"})
}

// AddExperience handles PUT /api/profile/experience.
func (h *ProfileHandler) AddExperience(c *fiber.Ctx) error {
	var req dto.ExperienceRequest
	return h.addEntry(c, &req, func(userID uuid.UUID) (*models.Profile, error) {
		return h.profileService.AddExperience(c.UserContext(), userID, &req)
	})
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id.
func (h *ProfileHandler) RemoveExperience(c *fiber.Ctx) error {
	return h.removeEntry(c, "exp_id", msgExperienceMissing, services.ErrExperienceNotFound,
		func(userID, entryID uuid.UUID) (*models.Profile, error) {
			return h.profileService.RemoveExperience(c.UserContext(), userID, entryID)
		})
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(c *fiber.Ctx) error {
	var req dto.EducationRequest
	return h.addEntry(c, &req, func(userID uuid.UUID) (*models.Profile, error) {
		return h.profileService.AddEducation(c.UserContext(), userID, &req)
	})
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id.
func (h *ProfileHandler) RemoveEducation(c *fiber.Ctx) error {
	return h.removeEntry(c, "edu_id", msgEducationMissing, services.ErrEducationNotFound,
		func(userID, entryID uuid.UUID) (*models.Profile, error) {
			return h.profileService.RemoveEducation(c.UserContext(), userID, entryID)
		})
}

// GitHubRepos handles GET /api/profile/github/:username.
func (h *ProfileHandler) GitHubRepos(c *fiber.Ctx) error {
	repos, err := h.githubService.FetchRepos(c.UserContext(), c.Params("username"))
	if err != nil {
		if errors.Is(err, services.ErrGitHubNotFound) {
			return notFound(c, msgNoGitHub)
		}
		return serverError(c, err)
	}
	return c.JSON(repos)
}

func (h *ProfileHandler) addEntry(c *fiber.Ctx, req interface{}, add func(uuid.UUID) (*models.Profile, error)) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return serverError(c, err)
	}

	if err := bind(c, req); err != nil {
		_, werr := badInput(c, err)
		return werr
	}

	profile, err := add(userID)
	if err != nil {
		if handled, werr := badInput(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrProfileNotFound) {
			return notFound(c, msgNoProfile)
		}
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) removeEntry(c *fiber.Ctx, param, missingMsg string, missingErr error, remove func(userID, entryID uuid.UUID) (*models.Profile, error)) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return serverError(c, err)
	}

	entryID, err := uuid.Parse(c.Params(param))
	if err != nil {
		return notFound(c, missingMsg)
	}

	profile, err := remove(userID, entryID)
	if err != nil {
		switch {
		case errors.Is(err, missingErr):
			return notFound(c, missingMsg)
		case errors.Is(err, services.ErrProfileNotFound):
			return notFound(c, msgProfileNotFound)
		}
		return serverError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(profile))
}
