package validator

import (
	"regexp"

	"shophub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var mobileRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// registerCustomRules регистрирует доменные правила валидации
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("mobile", validateMobile); err != nil {
		return err
	}
	if err := v.RegisterValidation("filetype", validateFileType); err != nil {
		return err
	}
	return nil
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobileRe.MatchString(fl.Field().String())
}

func validateFileType(fl validator.FieldLevel) bool {
	return models.FileType(fl.Field().String()).Valid()
}
