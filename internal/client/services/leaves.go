package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type LeaveInput struct {
	FromDate       string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate         string `json:"to_date" validate:"required,datetime=2006-01-02"`
	Reason         string `json:"reason" validate:"required,max=500"`
	AttachmentPath string `json:"attachment"`
}

type Leaves struct {
	screen
	*Listing[models.Leave]
}

func NewLeaves(d Deps) *Leaves {
	return &Leaves{
		screen: newScreen(d),
		Listing: NewListing(func(l models.Leave) string {
			return l.Name + " " + l.Reason + " " + l.Status
		}),
	}
}

func (l *Leaves) Load(ctx context.Context, s session.Session) error {
	if err := signedIn(s); err != nil {
		return err
	}
	return l.Listing.Load(ctx, func(ctx context.Context) ([]models.Leave, Fetched, error) {
		return fetchAs[[]models.Leave](ctx, l.fetch, client.ActionGetLeaves, s.Params())
	})
}

// Apply submits a leave application for the signed-in user.
func (l *Leaves) Apply(ctx context.Context, s session.Session, in LeaveInput) error {
	if err := signedIn(s); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}
	from, _ := time.Parse(dateLayout, in.FromDate)
	to, _ := time.Parse(dateLayout, in.ToDate)
	if to.Before(from) {
		return fmt.Errorf("%w: to date must not be before from date", ErrInvalidInput)
	}

	params := s.With("from_date", in.FromDate, "to_date", in.ToDate, "reason", in.Reason)
	if in.AttachmentPath != "" {
		params.Set("attachment", in.AttachmentPath)
	}
	if _, err := l.write(ctx, "leave:new:"+s.UserID, client.ActionApplyLeave, params); err != nil {
		return err
	}

	l.reconcile(ctx, "leaves", func(ctx context.Context) error { return l.Load(ctx, s) })
	return nil
}

func (l *Leaves) Approve(ctx context.Context, s session.Session, id string) error {
	return l.setStatus(ctx, s, id, models.LeaveApproved)
}

func (l *Leaves) Reject(ctx context.Context, s session.Session, id string) error {
	return l.setStatus(ctx, s, id, models.LeaveRejected)
}

func (l *Leaves) setStatus(ctx context.Context, s session.Session, id, status string) error {
	if err := staffOnly(s); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: leave id is required", ErrInvalidInput)
	}

	params := s.With("leave_id", id, "status", status)
	if _, err := l.write(ctx, "leave:"+id, client.ActionUpdateLeaveStatus, params); err != nil {
		return err
	}

	byID := func(x models.Leave) bool { return x.ID.String() == id }
	if cur, ok := l.Find(byID); ok {
		cur.Status = status
		l.Replace(byID, cur)
	}
	l.reconcile(ctx, "leaves", func(ctx context.Context) error { return l.Load(ctx, s) })
	return nil
}
