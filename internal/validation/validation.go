// Package validation checks request bodies against their `validate` tags and
// turns failures into client-facing field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Messenger is implemented by request types that carry their own messages,
// keyed by "<json field>.<tag>".
type Messenger interface {
	ValidationMessages() map[string]string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Required text must carry something besides whitespace.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("csvlist", csvList)
	return v
}

// csvList accepts a comma-separated string with at least one non-blank item.
func csvList(fl validator.FieldLevel) bool {
	for _, item := range strings.Split(fl.Field().String(), ",") {
		if strings.TrimSpace(item) != "" {
			return true
		}
	}
	return false
}

// Struct returns one FieldError per failed rule, or nil when req is valid.
func Struct(req interface{}) []dto.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.FieldError{{Msg: err.Error()}}
	}

	var messages map[string]string
	if m, ok := req.(Messenger); ok {
		messages = m.ValidationMessages()
	}

	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out = append(out, dto.FieldError{Msg: msg, Param: fe.Field()})
	}
	return out
}
