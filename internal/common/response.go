package common

import (
	"encoding/json"
	"log"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Message: message})
}

// RespondWithAppError is the single place where failures become HTTP
// responses. Internal errors are logged with their cause and answered with a
// generic message.
func RespondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := AsAppError(err)
	status := HTTPStatusFromError(appErr)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: [%s] %s %s: %v",
			chiMiddleware.GetReqID(r.Context()), r.Method, r.URL.Path, appErr.Err)
	}
	RespondWithError(w, status, appErr.Message)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
