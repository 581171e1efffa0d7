package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxMessageLength caps inbound message size in characters. It must
// stay in sync with the max tag on messageRequest.Message.
const maxMessageLength = 10000

var validate = validator.New(validator.WithRequiredStructEnabled())

type messageRequest struct {
	Message   string `json:"message" validate:"required,max=10000"`
	SessionID string `json:"session_id" validate:"required"`
}

// validateMessageRequest returns a client-facing error string, or ""
// when the request is acceptable.
func validateMessageRequest(req *messageRequest) string {
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return "Request body is required"
		}

		fe := errs[0]
		switch {
		case fe.Field() == "Message" && fe.Tag() == "required":
			return "Message is required and must be a string"
		case fe.Field() == "Message" && fe.Tag() == "max":
			return fmt.Sprintf("Message is too long (max %d characters)", maxMessageLength)
		case fe.Field() == "SessionID":
			return "Session ID is required and must be a string"
		default:
			return "Invalid request"
		}
	}

	if strings.TrimSpace(req.Message) == "" {
		return "Message cannot be empty"
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return "Session ID cannot be empty"
	}

	return ""
}
