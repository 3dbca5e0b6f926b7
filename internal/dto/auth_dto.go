package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"notblank"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"min=6"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.notblank":  "Name is required!",
		"email.required": "Please include a valid email!",
		"email.email":    "Please include a valid email!",
		"password.min":   "Please enter a password with 6 or more characters!",
	}
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":    "Please include a valid email!",
		"email.email":       "Please include a valid email!",
		"password.notblank": "Password is required",
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Date:   u.CreatedAt,
	}
}

// ErrorResponse is the {"msg": ...} body used for every non-validation failure.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
}
