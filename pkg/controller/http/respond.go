package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		handleError(w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck
}

// handleError logs the error with its goerr values and writes the HTTP
// error response
func handleError(w http.ResponseWriter, err error, statusCode int) {
	logger := logging.Default()

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	http.Error(w, err.Error(), statusCode)
}
