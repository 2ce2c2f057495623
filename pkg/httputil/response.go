package httputil

import (
	"encoding/json"
	"net/http"

	"mailer/pkg/errutil"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Type    string `json:"type,omitempty"`
}

// ErrorOption shapes how an error is rendered for a route.
type ErrorOption struct {
	// Message replaces the error text in the "error" field; the error text moves to "details".
	// Without a pinned Status, not found errors keep their own text.
	Message string
	// Status pins the HTTP status for every error of the route.
	Status int
}

// ReturnServerResponse writes res as the JSON body on success, or an ErrorResponse otherwise.
func ReturnServerResponse(w http.ResponseWriter, res interface{}, resErr error, opts ...ErrorOption) {
	if resErr == nil {
		writeJson(w, http.StatusOK, res)
		return
	}

	code, errMsg := errutil.ParseHttpError(resErr)
	errType := errutil.GetErrorType(resErr)

	errRes := &ErrorResponse{
		Error: errMsg,
		Type:  string(errType),
	}

	for _, opt := range opts {
		if opt.Status != 0 {
			code = opt.Status
		}
		// unpinned routes report not found errors as they are
		if opt.Message != "" && (opt.Status != 0 || errType != errutil.TypeNotFound) {
			errRes.Error = opt.Message
			errRes.Details = errMsg
		}
	}

	writeJson(w, code, errRes)
}

func writeJson(w http.ResponseWriter, code int, body interface{}) {
	js, err := json.Marshal(body)
	if err != nil {
		log.Error().Msgf("marshal server response failed, err: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if _, err := w.Write(js); err != nil {
		log.Error().Msgf("fail to return server response, err: %v", err)
	}
}
