package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a live assessment session has not been joined.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank wraps validation failures of a loaded question bank.
	ErrInvalidBank = errors.New("question bank is invalid")
	// ErrQuestionNotFound indicates a question index outside the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound indicates an answer index outside the question's answers.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrSubmissionNotFound is returned when a stored submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidSubmission indicates a submission request failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")
)
