package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"maturity-quiz-service/internal/domain"
)

// HTTPMessage is the body of every non-2xx API response.
type HTTPMessage struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func returnHTTPMessage(w http.ResponseWriter, httpStatus int, messageType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(HTTPMessage{
		Status:  strconv.Itoa(httpStatus),
		Type:    messageType,
		Message: message,
	})
}

func returnJSON(w http.ResponseWriter, httpStatus int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}

// errorStatus maps domain errors onto an HTTP status and message type.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBankNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "notfound"
	case errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrAnswerNotFound):
		return http.StatusBadRequest, "badrequest"
	default:
		return http.StatusInternalServerError, "error"
	}
}
