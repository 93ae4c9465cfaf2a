package requests

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

type CreateRoleRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=255"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=255,slug"`
	Permissions []uint `form:"permissions" json:"permissions" validate:"omitempty,dive,gt=0"`
}

func (r *CreateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	return validate.Struct(r)
}

type UpdateRoleRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=255"`
	Permissions []uint `form:"permissions" json:"permissions" validate:"omitempty,dive,gt=0"`
}

func (r *UpdateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validate.Struct(r)
}

// Messages turns a validation error into user facing sentences.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid input"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("The %s field is required.", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param()))
		case "slug":
			msgs = append(msgs, fmt.Sprintf("The %s may only contain lowercase letters, numbers and dashes.", field))
		default:
			msgs = append(msgs, fmt.Sprintf("The %s field is invalid.", field))
		}
	}
	return msgs
}
