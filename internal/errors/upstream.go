package errors

import "fmt"

// UpstreamFailure creates an error for a failed call to the generative-text API.
// The cause is kept for server-side logging only.
func UpstreamFailure(model string, cause error) *Error {
	return &Error{
		Kind:    ErrUpstream,
		Message: "generative API request failed",
		Cause:   cause,
		Details: map[string]string{
			"model": model,
		},
		Suggestion: `Check your network connection and that the API key is valid.
  Try: curl -I https://generativelanguage.googleapis.com`,
	}
}

// EmptyCompletion creates an error for a response with no candidate text,
// typically blocked or filtered content.
func EmptyCompletion(model, reason string) *Error {
	msg := "generative API returned no text"
	if reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, reason)
	}
	return &Error{
		Kind:    ErrUpstream,
		Message: msg,
		Details: map[string]string{
			"model": model,
		},
		Suggestion: "The content may have been blocked. Try again or pick other technologies.",
	}
}
