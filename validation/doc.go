// Package validation provides input validation utilities backed by
// go-playground/validator.
//
// Struct tag validation reports fields by their config key:
//
//	type Settings struct {
//	    Hosts []string `mapstructure:"hosts" validate:"required,min=1,dive,notblank"`
//	}
//	err := validation.Validate(settings) // *errors.AppError on failure
//
// Programmatic validation collects errors for cross-field checks:
//
//	v := validation.New()
//	v.OneOf("output", out, []string{"table", "json", "yaml"})
//	err := v.Validate()
package validation
