package models

// FailureKind classifies why an operation did not succeed.
// It never reaches the client body; handlers map it to an HTTP status.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureInvalid is a local validation failure, no network call was made
	FailureInvalid
	// FailureRejected means the BookIt API answered with an error
	FailureRejected
	// FailureUnavailable means the BookIt API could not be reached
	FailureUnavailable
	// FailureUnverified is a correct login for an account pending verification
	FailureUnverified
	// FailureUnauthenticated means the session carries no usable user id
	FailureUnauthenticated
)

// Result is the outcome of an operation that only reports a message
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Status  int         `json:"status,omitempty"`
	Failure FailureKind `json:"-"`
}
