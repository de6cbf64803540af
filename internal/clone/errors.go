package clone

// ValidationError rejects a batch before any remote call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
