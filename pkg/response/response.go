// Package response defines the wire shapes of error bodies. Errors carry
// a single "detail" field; storage internals never leak through it.
package response

import "fmt"

type ErrorResponse struct {
	Detail string `json:"detail"`
}

var EmptyRequestBodyResponse = ErrorResponse{
	Detail: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = ErrorResponse{
	Detail: "Invalid request body.",
}

var ServerErrorResponse = ErrorResponse{
	Detail: "Internal Server Error",
}

// ShortURLNotFoundResponse echoes the unknown short id in the message.
func ShortURLNotFoundResponse(shortID string) ErrorResponse {
	return ErrorResponse{
		Detail: fmt.Sprintf("Short URL '%s' not found", shortID),
	}
}

// InvalidURLResponse describes a malformed url field in the request.
func InvalidURLResponse() ErrorResponse {
	return ErrorResponse{
		Detail: "The 'url' field must be a valid absolute URL.",
	}
}
