package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "reqboard/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Type    string                 `json:"type"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, errType, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    errType,
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps an application error onto the wire: its HTTP status,
// type, and code travel as-is; anything that is not an AppError becomes an
// opaque internal error.
func RespondAppError(w http.ResponseWriter, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "", "internal error")
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    string(appErr.Type),
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// ParseJSONBody parses JSON request body with size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
