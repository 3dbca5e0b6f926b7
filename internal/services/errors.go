package services

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrGitHubNotFound     = errors.New("github profile not found")
)

// ValidationError carries field-level problems found after the request
// schema passed, e.g. unparsable dates.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type requiredField struct {
	param string
	value string
	msg   string
}

// requireText reports every field whose value is empty after trimming.
func requireText(fields ...requiredField) error {
	var missing []dto.FieldError
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, dto.FieldError{Msg: f.msg, Param: f.param})
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
