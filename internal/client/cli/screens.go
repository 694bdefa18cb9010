package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/services"
)

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func (a *App) table(header string, rows func(w io.Writer)) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

// staleNote tells the user a list came from the cache.
func (a *App) staleNote(stale bool, at time.Time) {
	if stale {
		fmt.Fprintf(a.out, "(offline: saved %s)\n", at.Local().Format("02 Jan 15:04"))
	}
}

func (a *App) Notices(ctx context.Context, args []string) error {
	if err := a.notices.Load(ctx, a.currentSession()); err != nil {
		return err
	}
	query := strings.Join(args, " ")
	items := a.notices.Search(query)
	if len(items) == 0 {
		if a.notices.Len() > 0 {
			fmt.Fprintf(a.out, "No notices match %q\n", query)
			return nil
		}
		fmt.Fprintln(a.out, "No notices")
		return nil
	}
	a.staleNote(a.notices.Stale(), a.notices.FetchedAt())
	for _, n := range items {
		fmt.Fprintf(a.out, "[%s] %s  (%s)\n%s\n\n", n.ID, n.Title, n.Date, n.Content)
	}
	return nil
}

func (a *App) PostNotice(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Notice text", a.out)
	if err != nil {
		return err
	}
	audience, err := getSimpleText(a.reader, "Audience (all, students, parents, staff)", a.out)
	if err != nil {
		return err
	}

	in := services.NoticeInput{Title: title, Content: content, Audience: strings.ToLower(audience)}
	if err := a.notices.Post(ctx, a.currentSession(), in); err != nil {
		return err
	}
	a.banner.Success("Notice posted")
	return nil
}

func (a *App) Homework(ctx context.Context, args []string) error {
	var className, section string
	if len(args) >= 2 {
		className, section = args[0], args[1]
	}
	if err := a.homework.Load(ctx, a.currentSession(), className, section); err != nil {
		return err
	}
	items := a.homework.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No homework")
		return nil
	}
	a.staleNote(a.homework.Stale(), a.homework.FetchedAt())
	a.table("DUE\tSUBJECT\tTITLE\tATTACHMENT", func(w io.Writer) {
		for _, h := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.DueDate, h.Subject, h.Title, h.AttachmentPath)
		}
	})
	return nil
}

func (a *App) Assign(ctx context.Context) error {
	s := a.currentSession()
	in := services.HomeworkInput{ClassName: s.ClassName, Section: s.Section}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Class", &in.ClassName},
		{"Section", &in.Section},
		{"Subject", &in.Subject},
		{"Title", &in.Title},
		{"Due date (YYYY-MM-DD)", &in.DueDate},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}
	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	in.Description = desc

	if in.AttachmentPath, err = a.attach(ctx); err != nil {
		return err
	}

	if err := a.homework.Assign(ctx, s, in); err != nil {
		return err
	}
	a.banner.Success("Homework assigned")
	return nil
}

// Attendance loads a register and lets the user mark it before submitting.
func (a *App) Attendance(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("attendance <class> <section> [YYYY-MM-DD]")
	}
	date := ""
	if len(args) > 2 {
		date = args[2]
	}
	s := a.currentSession()
	if err := a.attendance.Load(ctx, s, args[0], args[1], date); err != nil {
		return err
	}
	if a.attendance.Stale() {
		fmt.Fprintln(a.out, "(offline: register loaded from saved data)")
	}

	for {
		a.printRegister()
		cmd, err := getSimpleText(a.reader, "mark <roll|id> p|a|l, all p|a|l, submit, cancel", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "mark":
			if len(parts) != 3 {
				fmt.Fprintln(a.out, "mark <roll|id> p|a|l")
				continue
			}
			st, ok := models.ParseAttendanceStatus(parts[2])
			if !ok {
				fmt.Fprintln(a.out, "status must be p, a or l")
				continue
			}
			if err := a.attendance.Mark(parts[1], st); err != nil {
				fmt.Fprintln(a.out, err)
			}

		case "all":
			st, ok := models.ParseAttendanceStatus(strings.Join(parts[1:], ""))
			if !ok {
				fmt.Fprintln(a.out, "status must be p, a or l")
				continue
			}
			a.attendance.MarkAll(st)

		case "submit":
			if err := a.attendance.Submit(ctx, s); err != nil {
				return err
			}
			a.banner.Success("Attendance saved")
			return nil

		case "cancel":
			return nil

		default:
			fmt.Fprintln(a.out, "Unknown command:", parts[0])
		}
	}
}

func (a *App) printRegister() {
	a.table("ROLL\tNAME\tSTATUS", func(w io.Writer) {
		for _, r := range a.attendance.Records() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.RollNo, r.Name, r.Status)
		}
	})
	p, ab, l := a.attendance.Summary()
	fmt.Fprintf(a.out, "present %d, absent %d, leave %d\n", p, ab, l)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (a *App) Fees(ctx context.Context, args []string) error {
	if err := a.fees.LoadDues(ctx, a.currentSession(), firstArg(args)); err != nil {
		return err
	}
	dues := a.fees.Dues.Items()
	if len(dues) == 0 {
		fmt.Fprintln(a.out, "No dues")
		return nil
	}
	a.staleNote(a.fees.Dues.Stale(), a.fees.Dues.FetchedAt())
	a.table("MONTH\tAMOUNT\tPAID\tDUE", func(w io.Writer) {
		for _, d := range dues {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Month, rupees(float64(d.Amount)), rupees(float64(d.Paid)), rupees(float64(d.Due)))
		}
	})
	fmt.Fprintln(a.out, "Total due:", rupees(a.fees.TotalDue()))
	return nil
}

func rupees(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64)
}

func (a *App) Collect(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("collect <student> <amount> <cash|upi|cheque|online> [months]")
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", ""), 64)
	if err != nil {
		return usage("amount must be a number")
	}
	in := services.CollectInput{
		StudentID: args[0],
		Amount:    amount,
		Mode:      strings.ToLower(args[2]),
		Months:    strings.Join(args[3:], " "),
	}

	ok, err := a.confirm(fmt.Sprintf("Collect %s by %s from %s?", rupees(amount), in.Mode, in.StudentID))
	if err != nil || !ok {
		return err
	}

	rc, err := a.fees.Collect(ctx, a.currentSession(), in)
	if err != nil {
		return err
	}
	a.banner.Success(fmt.Sprintf("Receipt %s: %s received", rc.ReceiptNo, rupees(float64(rc.Amount))))
	return nil
}

func (a *App) Receipts(ctx context.Context, args []string) error {
	if err := a.fees.LoadReceipts(ctx, a.currentSession(), firstArg(args)); err != nil {
		return err
	}
	items := a.fees.Receipts.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No receipts")
		return nil
	}
	a.staleNote(a.fees.Receipts.Stale(), a.fees.Receipts.FetchedAt())
	a.table("RECEIPT\tDATE\tAMOUNT\tMODE\tMONTHS", func(w io.Writer) {
		for _, r := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ReceiptNo, r.Date, rupees(float64(r.Amount)), r.Mode, r.Months)
		}
	})
	return nil
}

func (a *App) Leaves(ctx context.Context, args []string) error {
	if err := a.leaves.Load(ctx, a.currentSession()); err != nil {
		return err
	}
	items := a.leaves.Search(strings.Join(args, " "))
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No leave applications")
		return nil
	}
	a.staleNote(a.leaves.Stale(), a.leaves.FetchedAt())
	a.table("ID\tNAME\tFROM\tTO\tSTATUS\tREASON", func(w io.Writer) {
		for _, l := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, l.Name, l.FromDate, l.ToDate, l.Status, l.Reason)
		}
	})
	return nil
}

func (a *App) Apply(ctx context.Context) error {
	var in services.LeaveInput
	var err error

	if in.FromDate, err = getSimpleText(a.reader, "From (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	if in.ToDate, err = getSimpleText(a.reader, "To (YYYY-MM-DD, empty for same day)", a.out); err != nil {
		return err
	}
	if in.ToDate == "" {
		in.ToDate = in.FromDate
	}
	if in.Reason, err = getMultiline(a.reader, "Reason", a.out); err != nil {
		return err
	}
	if in.AttachmentPath, err = a.attach(ctx); err != nil {
		return err
	}

	if err := a.leaves.Apply(ctx, a.currentSession(), in); err != nil {
		return err
	}
	a.banner.Success("Leave application submitted")
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("approve <id>")
	}
	if err := a.leaves.Approve(ctx, a.currentSession(), args[0]); err != nil {
		return err
	}
	a.banner.Success("Leave " + args[0] + " approved")
	return nil
}

func (a *App) Reject(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("reject <id>")
	}
	if err := a.leaves.Reject(ctx, a.currentSession(), args[0]); err != nil {
		return err
	}
	a.banner.Success("Leave " + args[0] + " rejected")
	return nil
}

func (a *App) Complaints(ctx context.Context, args []string) error {
	if err := a.complaints.Load(ctx, a.currentSession()); err != nil {
		return err
	}
	items := a.complaints.Search(strings.Join(args, " "))
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No complaints")
		return nil
	}
	a.staleNote(a.complaints.Stale(), a.complaints.FetchedAt())
	for _, c := range items {
		fmt.Fprintf(a.out, "[%s] %s (%s, %s)\n%s\n", c.ID, c.Subject, c.Status, c.Date, c.Description)
		if c.Response != "" {
			fmt.Fprintf(a.out, "  response: %s\n", c.Response)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *App) Complain(ctx context.Context) error {
	subject, err := getSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return err
	}
	desc, err := getMultiline(a.reader, "Describe the problem", a.out)
	if err != nil {
		return err
	}

	in := services.ComplaintInput{Subject: subject, Description: desc}
	if err := a.complaints.File(ctx, a.currentSession(), in); err != nil {
		return err
	}
	a.banner.Success("Complaint registered")
	return nil
}

func (a *App) Resolve(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("resolve <id> [response]")
	}
	if err := a.complaints.Resolve(ctx, a.currentSession(), args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	a.banner.Success("Complaint " + args[0] + " resolved")
	return nil
}

// Report prints an exam report. Staff name the student first.
func (a *App) Report(ctx context.Context, args []string) error {
	s := a.currentSession()
	var studentID string
	if s.IsStaff() {
		if len(args) < 2 {
			return usage("report <student> <exam>")
		}
		studentID, args = args[0], args[1:]
	}
	if len(args) == 0 {
		return usage("report <exam>")
	}

	rep, res, err := a.reports.Report(ctx, s, studentID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.staleNote(res.Stale, res.FetchedAt)

	fmt.Fprintf(a.out, "%s, class %s: %s\n", rep.Name, rep.ClassName, rep.Exam)
	a.table("SUBJECT\tMARKS\tOUT OF\tGRADE", func(w io.Writer) {
		for _, m := range rep.Subjects {
			fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", m.Subject, float64(m.Obtained), float64(m.MaxMarks), m.Grade)
		}
	})
	obtained, outOf, pct := rep.Totals()
	fmt.Fprintf(a.out, "Total %g / %g (%.1f%%)\n", obtained, outOf, pct)
	return nil
}
