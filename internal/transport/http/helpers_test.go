package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"maturity-quiz-service/internal/app"
	"maturity-quiz-service/internal/infra/memory"
	"maturity-quiz-service/internal/scoring"
)

func newTestService() *app.AssessmentService {
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(scoring.BuiltinBank()), time.Minute)
	return app.NewAssessmentService(memory.NewSessionStore(), banks, memory.NewSubmissionStore(), nil)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewRouter(newTestService(), nil, RouterOptions{DefaultBankID: scoring.DefaultBankID}))
	t.Cleanup(server.Close)
	return server
}
