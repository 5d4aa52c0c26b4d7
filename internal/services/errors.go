package services

// ServiceError is a typed error carrying the HTTP status a controller should
// respond with.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}
