package models

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneSeparator = regexp.MustCompile(`[\s\-()]`)
	validate       = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// ValidPhone accepts an optional leading plus and up to 16 digits, ignoring
// spaces, dashes and parentheses.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparator.ReplaceAllString(phone, ""))
}

type ProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

var profileMessages = map[string]map[string]string{
	"name": {
		"required": "Name is required",
		"min":      "Name must be at least 2 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
	},
	"phone": {
		"required": "Phone number is required",
		"phone":    "Please enter a valid phone number",
	},
}

// implements the Validator interface
func (r *ProfileRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrorResponse{Code: "validation_error", Message: err.Error()}
	}

	details := make([]ValidationErrorDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reason := profileMessages[fe.Field()][fe.Tag()]
		if reason == "" {
			reason = fe.Error()
		}
		details = append(details, ValidationErrorDetail{Field: fe.Field(), Reason: reason})
	}
	return &ErrorResponse{
		Code:    "invalid_profile",
		Message: "Profile is incomplete or invalid",
		Details: details,
	}
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// an empty answer is allowed; the candidate may submit nothing before time runs out
func (r *AnswerRequest) Validate() error {
	if len(r.Answer) > 20000 {
		return &ErrorResponse{
			Code:    "answer_too_long",
			Message: "Answer must be at most 20000 characters",
		}
	}
	return nil
}
