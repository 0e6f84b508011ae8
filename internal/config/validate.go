package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validatePort checks if a port number is valid.
func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// validatePositive checks if an integer field is greater than zero.
func validatePositive(field string, value int) error {
	if value <= 0 {
		return &ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return nil
}
