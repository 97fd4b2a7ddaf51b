package errors

// Error is the standardized API error response.
type Error struct {
	Message string `json:"message" example:"Deck not found"`
	Error   int    `json:"error" example:"404"`
}

var DeckNotFoundError = Error{
	Message: "Deck not found",
	Error:   404,
}

var InvalidRequestError = Error{
	Message: "Invalid request",
	Error:   400,
}

var ValidationError = Error{
	Message: "Validation failed",
	Error:   422,
}

var ForbiddenError = Error{
	Message: "Access forbidden",
	Error:   403,
}

var InternalServerError = Error{
	Message: "Internal server error",
	Error:   500,
}

func NewInvalidParamError(paramName string) Error {
	return Error{
		Message: "Invalid parameter: " + paramName,
		Error:   400,
	}
}
