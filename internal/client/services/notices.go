package services

import (
	"context"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type NoticeInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	Audience string `json:"audience" validate:"omitempty,oneof=all students parents staff"`
}

// Notices is the notice board.
type Notices struct {
	screen
	*Listing[models.Notice]
}

func NewNotices(d Deps) *Notices {
	return &Notices{
		screen: newScreen(d),
		Listing: NewListing(func(n models.Notice) string {
			return n.Title + " " + n.Content + " " + n.PostedBy
		}),
	}
}

func (n *Notices) Load(ctx context.Context, s session.Session) error {
	if err := signedIn(s); err != nil {
		return err
	}
	return n.Listing.Load(ctx, func(ctx context.Context) ([]models.Notice, Fetched, error) {
		return fetchAs[[]models.Notice](ctx, n.fetch, client.ActionGetNotices, s.Params())
	})
}

// Post publishes a notice. Staff only.
func (n *Notices) Post(ctx context.Context, s session.Session, in NoticeInput) error {
	if err := staffOnly(s); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}
	if in.Audience == "" {
		in.Audience = "all"
	}

	params := s.With("title", in.Title, "content", in.Content, "audience", in.Audience)
	if _, err := n.write(ctx, "notice:new", client.ActionAddNotice, params); err != nil {
		return err
	}

	n.reconcile(ctx, "notices", func(ctx context.Context) error { return n.Load(ctx, s) })
	return nil
}
