package commons

type Response[T any] struct {
	Success bool     `json:"success"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

// ErrorResponse stamps the envelope with the stable error kind so the
// presentation layer can translate failures without parsing detail text.
func ErrorResponse[T any](err error, message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Code:    ErrorKind(err),
		Message: message,
		Errors:  errors,
	}
}
