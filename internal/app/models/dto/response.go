package dto

// FormResult is the explicit outcome of a form submission: either a redirect
// or a re-render of the page with errors and the previously entered values.
type FormResult struct {
	RedirectTo string            `json:"-"`
	Errors     []string          `json:"errors,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// IsRedirect reports whether the result is a redirect.
func (r FormResult) IsRedirect() bool {
	return r.RedirectTo != ""
}

// Redirect builds a redirect result.
func Redirect(location string) FormResult {
	return FormResult{RedirectTo: location}
}

// Rerender builds a re-render result carrying errors and echoed field values.
func Rerender(errors []string, fields map[string]string) FormResult {
	return FormResult{Errors: errors, Fields: fields}
}

// Success builds a re-render result carrying a success message.
func Success(message string) FormResult {
	return FormResult{Message: message}
}
