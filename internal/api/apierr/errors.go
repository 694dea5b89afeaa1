package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/guessroom/guessroom/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeRoomFull          = "ROOM_FULL"
	CodeWrongPassword     = "WRONG_PASSWORD"
	CodeInvalidRoomConfig = "INVALID_ROOM_CONFIG"
	CodePlayerNotInRoom   = "PLAYER_NOT_IN_ROOM"
	CodeInvalidGuess      = "INVALID_GUESS"
	CodeInvalidTarget     = "INVALID_TARGET"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrWrongPassword):
		return &httpError{http.StatusForbidden, APIError{CodeWrongPassword, "Incorrect password"}}
	case errors.Is(err, model.ErrInvalidRoomConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoomConfig, "Invalid room configuration"}}
	case errors.Is(err, model.ErrPlayerNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotInRoom, "Player is not in this room"}}
	case errors.Is(err, model.ErrInvalidGuessFormat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, "Guess must be digits of the target length"}}
	case errors.Is(err, model.ErrInvalidTargetNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTarget, "Target must be digits of the configured length"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
