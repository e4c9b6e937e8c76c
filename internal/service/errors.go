package service

// ValidationError rejects a request before it touches the database. The
// API layer maps it to a 400 with the message as the response body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
