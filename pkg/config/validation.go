package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// burst only makes sense alongside a configured rate
	_ = validate.RegisterValidation("requires_rate", validateRequiresRate)
}

// validateRequiresRate checks that a nonzero burst is accompanied by a
// nonzero ops_per_second on the enclosing scenario section.
func validateRequiresRate(fl validator.FieldLevel) bool {
	burst := fl.Field().Uint()
	if burst == 0 {
		return true
	}

	parent, ok := fl.Parent().Interface().(ScenarioConfig)
	if !ok {
		return true
	}
	return parent.OpsPerSecond > 0
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for rules that
// cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	// Run struct tag validation
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Custom validation rules that can't be expressed in tags
	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// A proxied workload without a scenario has nothing to proxy
	if cfg.Scenario.ProxiedIO && cfg.Scenario.Path == "" {
		return fmt.Errorf("scenario: proxied_io is true but no scenario path is configured")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
