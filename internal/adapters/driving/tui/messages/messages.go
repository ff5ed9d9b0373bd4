// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the retriever's reply back to the model.
type AnswerReceived struct {
	Question string
	Result   domain.QueryResult
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// TranscriptCleared is sent after the conversation is cleared.
type TranscriptCleared struct{}

// Quit signals the application should exit.
type Quit struct{}
