package errors

import (
	"fmt"
	"strings"
)

// APIKeyEnv is the environment variable that carries the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// MissingAPIKey creates the fatal startup error for an unset API key.
func MissingAPIKey() *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("%s is not set", APIKeyEnv),
		Suggestion: fmt.Sprintf(`Create a .env file in the working directory with:
  %s="YOUR_KEY_HERE"

or export it in your shell before starting techcat.`, APIKeyEnv),
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *Error {
	suggestion := fmt.Sprintf("Fix the %q field in techcat.yaml or its TECHCAT_ environment override", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}

// DatasetUnavailable creates an error for a dataset that is missing or malformed.
func DatasetUnavailable(source string, cause error) *Error {
	return &Error{
		Kind:    ErrDataset,
		Message: "could not load the technology dataset",
		Cause:   cause,
		Details: map[string]string{
			"source": source,
		},
		Suggestion: `Check that the file exists and holds a JSON array of technologies.
  Point techcat at another file with TECHCAT_DATA_PATH or data.path in techcat.yaml.`,
	}
}
