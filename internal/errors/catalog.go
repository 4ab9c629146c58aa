package errors

import "fmt"

// MissingTechnology creates a validation error for an absent compare input.
func MissingTechnology(field string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("missing technology %q", field),
		Details: map[string]string{
			"field": field,
		},
	}
}

// TechnologyNotFound creates an error for a name that is not in the catalog.
func TechnologyNotFound(name string) *Error {
	return &Error{
		Kind:       ErrNotFound,
		Message:    fmt.Sprintf("technology not found: %s", name),
		Details:    map[string]string{"name": name},
		Suggestion: "Names are matched case-insensitively; pick one from the list shown above.",
	}
}
