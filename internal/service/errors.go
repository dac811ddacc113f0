package service

import "net/http"

// BusinessError is an expected, user-facing failure: invalid coupon, illegal
// transition, insufficient stock. Handlers map it straight to a response;
// anything else is treated as an internal error.
type BusinessError struct {
	Status  int
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func badRequest(message string) *BusinessError {
	return &BusinessError{Status: http.StatusBadRequest, Message: message}
}

func notFound(message string) *BusinessError {
	return &BusinessError{Status: http.StatusNotFound, Message: message}
}

func forbidden(message string) *BusinessError {
	return &BusinessError{Status: http.StatusForbidden, Message: message}
}

func conflict(message string) *BusinessError {
	return &BusinessError{Status: http.StatusConflict, Message: message}
}
