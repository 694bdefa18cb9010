package services

import (
	"context"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type HomeworkInput struct {
	ClassName      string `json:"class" validate:"required"`
	Section        string `json:"section" validate:"required"`
	Subject        string `json:"subject" validate:"required"`
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description"`
	DueDate        string `json:"due_date" validate:"required,datetime=2006-01-02"`
	AttachmentPath string `json:"attachment"`
}

type Homework struct {
	screen
	*Listing[models.Homework]

	className, section string
}

func NewHomework(d Deps) *Homework {
	return &Homework{
		screen: newScreen(d),
		Listing: NewListing(func(h models.Homework) string {
			return h.Subject + " " + h.Title + " " + h.Description
		}),
	}
}

// Load lists homework for a class and section. Empty values fall back to
// the user's own class.
func (h *Homework) Load(ctx context.Context, s session.Session, className, section string) error {
	if err := signedIn(s); err != nil {
		return err
	}
	if className == "" {
		className = s.ClassName
	}
	if section == "" {
		section = s.Section
	}
	h.className, h.section = className, section

	params := s.With("class", className, "section", section)
	return h.Listing.Load(ctx, func(ctx context.Context) ([]models.Homework, Fetched, error) {
		return fetchAs[[]models.Homework](ctx, h.fetch, client.ActionGetHomework, params)
	})
}

// Assign posts homework, optionally with the path of an uploaded attachment.
func (h *Homework) Assign(ctx context.Context, s session.Session, in HomeworkInput) error {
	if err := staffOnly(s); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}

	params := s.With(
		"class", in.ClassName,
		"section", in.Section,
		"subject", in.Subject,
		"title", in.Title,
		"description", in.Description,
		"due_date", in.DueDate,
	)
	if in.AttachmentPath != "" {
		params.Set("attachment", in.AttachmentPath)
	}

	record := "homework:" + in.ClassName + ":" + in.Section + ":" + in.Subject
	if _, err := h.write(ctx, record, client.ActionAddHomework, params); err != nil {
		return err
	}

	h.reconcile(ctx, "homework", func(ctx context.Context) error {
		return h.Load(ctx, s, in.ClassName, in.Section)
	})
	return nil
}
