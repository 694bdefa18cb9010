package services

import (
	"context"
	"fmt"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type ComplaintInput struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

type Complaints struct {
	screen
	*Listing[models.Complaint]
}

func NewComplaints(d Deps) *Complaints {
	return &Complaints{
		screen: newScreen(d),
		Listing: NewListing(func(c models.Complaint) string {
			return c.Subject + " " + c.Description + " " + c.RaisedBy + " " + c.Status
		}),
	}
}

func (c *Complaints) Load(ctx context.Context, s session.Session) error {
	if err := signedIn(s); err != nil {
		return err
	}
	return c.Listing.Load(ctx, func(ctx context.Context) ([]models.Complaint, Fetched, error) {
		return fetchAs[[]models.Complaint](ctx, c.fetch, client.ActionGetComplaints, s.Params())
	})
}

func (c *Complaints) File(ctx context.Context, s session.Session, in ComplaintInput) error {
	if err := signedIn(s); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}

	params := s.With("subject", in.Subject, "description", in.Description)
	if _, err := c.write(ctx, "complaint:new:"+s.UserID, client.ActionAddComplaint, params); err != nil {
		return err
	}

	c.reconcile(ctx, "complaints", func(ctx context.Context) error { return c.Load(ctx, s) })
	return nil
}

// Resolve closes a complaint with an optional response. Staff only.
func (c *Complaints) Resolve(ctx context.Context, s session.Session, id, response string) error {
	if err := staffOnly(s); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: complaint id is required", ErrInvalidInput)
	}

	params := s.With("complaint_id", id, "status", models.ComplaintResolved, "response", response)
	if _, err := c.write(ctx, "complaint:"+id, client.ActionUpdateComplaintStatus, params); err != nil {
		return err
	}

	byID := func(x models.Complaint) bool { return x.ID.String() == id }
	if cur, ok := c.Find(byID); ok {
		cur.Status = models.ComplaintResolved
		cur.Response = response
		c.Replace(byID, cur)
	}
	c.reconcile(ctx, "complaints", func(ctx context.Context) error { return c.Load(ctx, s) })
	return nil
}
