package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/app"
	"maturity-quiz-service/internal/domain"
)

// APIHandler serves the REST endpoints.
type APIHandler struct {
	service *app.AssessmentService
	logger  *zap.Logger
}

func NewAPIHandler(service *app.AssessmentService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{service: service, logger: logger}
}

func (h *APIHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/banks/{bankId}/questions", h.Questions).Methods(http.MethodGet)
	api.HandleFunc("/banks/{bankId}/score", h.Score).Methods(http.MethodPost)
	api.HandleFunc("/banks/{bankId}/submissions", h.Submit).Methods(http.MethodPost)
	api.HandleFunc("/submissions/{id}", h.Submission).Methods(http.MethodGet)
}

func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (h *APIHandler) Questions(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]
	questions, err := h.service.Questions(r.Context(), bankID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, questions)
}

// answerList accepts any integer or null per question. Anything that is not a valid
// answer index is scored as unanswered rather than rejected.
type answerList []*int

func (l answerList) indexes() []int {
	out := make([]int, len(l))
	for i, a := range l {
		out[i] = -1
		if a != nil {
			out[i] = *a
		}
	}
	return out
}

type scoreRequest struct {
	Answers answerList `json:"answers"`
}

type submitRequest struct {
	Answers answerList     `json:"answers"`
	Contact domain.Contact `json:"contact"`
}

func (h *APIHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeValidated(r, scoreSchema, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	results, err := h.service.Score(r.Context(), mux.Vars(r)["bankId"], req.Answers.indexes())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, results)
}

func (h *APIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeValidated(r, submissionSchema, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	submission, err := h.service.Submit(r.Context(), mux.Vars(r)["bankId"], domain.SubmissionRequest{
		Answers: req.Answers.indexes(),
		Contact: req.Contact,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	returnJSON(w, http.StatusCreated, submission)
}

func (h *APIHandler) Submission(w http.ResponseWriter, r *http.Request) {
	submission, err := h.service.Submission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, submission)
}

func (h *APIHandler) badRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, errPayloadTooLarge) {
		returnHTTPMessage(w, http.StatusRequestEntityTooLarge, "toolarge", err.Error())
		return
	}
	returnHTTPMessage(w, http.StatusBadRequest, "badrequest", err.Error())
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		returnHTTPMessage(w, status, kind, "internal error")
		return
	}
	returnHTTPMessage(w, status, kind, err.Error())
}
