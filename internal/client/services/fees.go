package services

import (
	"context"
	"strconv"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type CollectInput struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Mode      string  `json:"mode" validate:"required,oneof=cash upi cheque online"`
	Months    string  `json:"months"`
}

// Fees shows dues and receipts for one student and collects payments.
type Fees struct {
	screen
	Dues     *Listing[models.FeeDue]
	Receipts *Listing[models.Receipt]
}

func NewFees(d Deps) *Fees {
	return &Fees{
		screen: newScreen(d),
		Dues: NewListing(func(f models.FeeDue) string {
			return f.Name + " " + f.Month
		}),
		Receipts: NewListing(func(r models.Receipt) string {
			return r.ReceiptNo.String() + " " + r.Name + " " + r.Months + " " + r.Mode
		}),
	}
}

// student resolves whose fees are shown. Students and parents only ever see
// their own.
func student(s session.Session, id string) string {
	if id == "" || !s.IsStaff() {
		return s.UserID
	}
	return id
}

func (f *Fees) LoadDues(ctx context.Context, s session.Session, studentID string) error {
	if err := signedIn(s); err != nil {
		return err
	}
	params := s.With("student_id", student(s, studentID))
	return f.Dues.Load(ctx, func(ctx context.Context) ([]models.FeeDue, Fetched, error) {
		return fetchAs[[]models.FeeDue](ctx, f.fetch, client.ActionGetFeeDues, params)
	})
}

// TotalDue sums the loaded dues.
func (f *Fees) TotalDue() float64 {
	var total float64
	for _, d := range f.Dues.Items() {
		total += float64(d.Due)
	}
	return total
}

func (f *Fees) LoadReceipts(ctx context.Context, s session.Session, studentID string) error {
	if err := signedIn(s); err != nil {
		return err
	}
	params := s.With("student_id", student(s, studentID))
	return f.Receipts.Load(ctx, func(ctx context.Context) ([]models.Receipt, Fetched, error) {
		return fetchAs[[]models.Receipt](ctx, f.fetch, client.ActionGetReceipts, params)
	})
}

// Collect records a payment and returns the receipt. Staff only.
func (f *Fees) Collect(ctx context.Context, s session.Session, in CollectInput) (models.Receipt, error) {
	if err := staffOnly(s); err != nil {
		return models.Receipt{}, err
	}
	if err := check(in); err != nil {
		return models.Receipt{}, err
	}

	params := s.With(
		"student_id", in.StudentID,
		"amount", strconv.FormatFloat(in.Amount, 'f', 2, 64),
		"mode", in.Mode,
		"months", in.Months,
	)
	payload, err := f.write(ctx, "fee:"+in.StudentID, client.ActionCollectFee, params)
	if err != nil {
		return models.Receipt{}, err
	}

	rc, err := client.Decode[models.Receipt](client.ActionCollectFee, payload)
	if err != nil {
		return models.Receipt{}, err
	}
	if rc.StudentID == "" {
		rc.StudentID = models.FlexString(in.StudentID)
	}
	if rc.Amount == 0 {
		rc.Amount = models.FlexFloat(in.Amount)
	}
	if rc.Mode == "" {
		rc.Mode = in.Mode
	}

	f.reconcile(ctx, "fees", func(ctx context.Context) error {
		return f.LoadDues(ctx, s, in.StudentID)
	})
	return rc, nil
}
