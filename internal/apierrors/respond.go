package apierrors

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every error response body.
type Envelope struct {
	ErrorCode Code           `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *Error) Envelope() Envelope {
	return Envelope{
		ErrorCode: e.Code,
		ErrorType: e.Type,
		Message:   e.Message,
		RequestID: e.RequestID,
		Details:   e.Details,
	}
}

// RespondJSON writes payload as a JSON response with the given status,
// mirroring the teacher's respondJSON helper.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError coerces err into the taxonomy and writes its JSON envelope,
// stamping requestID into the body when the caller has one (from the
// X-Request-ID middleware).
func RespondError(w http.ResponseWriter, err error, requestID string) {
	apiErr := FromError(err)
	if requestID != "" && apiErr.RequestID == "" {
		apiErr = apiErr.WithRequestID(requestID)
	}
	RespondJSON(w, apiErr.Status(), apiErr.Envelope())
}
