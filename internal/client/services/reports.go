package services

import (
	"context"
	"fmt"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type Reports struct {
	screen
}

func NewReports(d Deps) *Reports {
	return &Reports{screen: newScreen(d)}
}

// Report returns the marks of one student in one exam.
func (r *Reports) Report(ctx context.Context, s session.Session, studentID, exam string) (models.ExamReport, Fetched, error) {
	if err := signedIn(s); err != nil {
		return models.ExamReport{}, Fetched{}, err
	}
	if exam == "" {
		return models.ExamReport{}, Fetched{}, fmt.Errorf("%w: exam is required", ErrInvalidInput)
	}
	params := s.With("student_id", student(s, studentID), "exam", exam)
	return fetchAs[models.ExamReport](ctx, r.fetch, client.ActionGetExamReport, params)
}
