package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks configuration structs against their validate tags plus
// the colony rules registered here
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the "probability" tag and the database
// connection rule
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("probability", func(fl validator.FieldLevel) bool {
		p := fl.Field().Float()
		return p >= 0 && p <= 1
	})
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	return &Validator{validate: v}
}

// postgres needs either a URL or a host and database name
func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.Type != "postgres" || db.URL != "" {
		return
	}
	if db.Host == "" {
		sl.ReportError(db.Host, "Host", "host", "required_without_url", "")
	}
	if db.Name == "" {
		sl.ReportError(db.Name, "Name", "name", "required_without_url", "")
	}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		if e.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s: must satisfy %s=%s (got '%v')", field, e.Tag(), e.Param(), e.Value()))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: failed %s (got '%v')", field, e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
