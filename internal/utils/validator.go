package utils

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

func InitValidator() {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("duration", validateDuration)
		Validate = v
	})
}

func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}
