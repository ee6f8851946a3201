package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/service/util"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("could not encode response", log.ErrorField(err))
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

// writeError translates service errors into JSON error responses.
// Domain errors keep their reason string, everything else becomes a
// generic request_failed with the cause in the detail field.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *util.Error
	if errors.As(err, &domainErr) {
		log.GetFromContext(r.Context()).Debug("rejecting request",
			log.String("reason", domainErr.Message))
		writeJSON(w, statusForKind(domainErr.Kind), errorBody{Error: domainErr.Message})
		return
	}
	log.GetFromContext(r.Context()).Error("request failed", log.ErrorField(err))
	writeJSON(w, http.StatusInternalServerError,
		errorBody{Error: "request_failed", Detail: err.Error()})
}

func statusForKind(kind util.Kind) int {
	switch kind {
	case util.KindInvalidSelector, util.KindDataUnavailable:
		return http.StatusNotFound
	case util.KindInsufficientSignal:
		return http.StatusUnprocessableEntity
	case util.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
