package http

import (
	"net/http"

	"github.com/talentgate/authcore/pkg/httpx"
)

// errorResponse is the JSON error envelope. Codes are stable strings
// clients can switch on; descriptions are for humans.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type apiError struct {
	Status      int
	Code        string
	Description string
}

func (e apiError) Write(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.Status, errorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

var (
	errInvalidBody = apiError{
		Status:      http.StatusBadRequest,
		Code:        "AUTH_INVALID_REQUEST",
		Description: "Request body must be valid JSON with the required fields.",
	}
	errInvalidCredentials = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_INVALID_CREDENTIALS",
		Description: "Email or password is incorrect.",
	}
	errMFARequired = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_MFA_REQUIRED",
		Description: "A one-time code is required for this account.",
	}
	errTokenInvalid = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_TOKEN_INVALID",
		Description: "The refresh token is malformed or unknown.",
	}
	errTokenExpired = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_TOKEN_EXPIRED",
		Description: "The refresh token has expired; log in again.",
	}
	errTokenRevoked = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_TOKEN_REVOKED",
		Description: "The session has been revoked.",
	}
	errTokenReuse = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "AUTH_TOKEN_REUSE",
		Description: "The refresh token was already used; the session has been revoked.",
	}
	errServer = apiError{
		Status:      http.StatusInternalServerError,
		Code:        "AUTH_SERVER_ERROR",
		Description: "Something went wrong; try again later.",
	}
)
