package dto

// BaseError — универсальный формат ошибки.
// Code — машинный код (snake_case), Message — краткое описание.
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ValidationErrorsResponse — невыполненные предусловия перехода checkout:
// клиент исправляет и повторяет запрос (400, не исключение).
type ValidationErrorsResponse struct {
	Errors []string `json:"errors"`
}

func NewValidationErrors(errs []string) ValidationErrorsResponse {
	return ValidationErrorsResponse{Errors: errs}
}

func NewBadRequestError(msg string) BaseError {
	return BaseError{Code: "bad_request", Message: msg}
}

func NewNotFoundError(msg string) BaseError {
	return BaseError{Code: "not_found", Message: msg}
}

func NewConflictError(msg string) BaseError {
	return BaseError{Code: "conflict", Message: msg}
}

func NewUnauthorizedError(msg string) BaseError {
	return BaseError{Code: "unauthorized", Message: msg}
}

func NewInternalError(details string) BaseError {
	return BaseError{Code: "internal_error", Message: "internal server error", Details: details}
}
