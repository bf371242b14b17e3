package api

import (
	"encoding/json"
	"net/http"

	"loan-approval-service/internal/common/errors"
)

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []errors.FieldError `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a StandardError onto the wire envelope. Only the safe
// message crosses the boundary; Details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.AsStandard(err)
	writeJSON(w, errors.HTTPStatus(stdErr.Code), errorEnvelope{
		Error: errorBody{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Fields:  errors.FieldErrors(stdErr),
		},
	})
}
