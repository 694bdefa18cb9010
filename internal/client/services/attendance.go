package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

var ErrUnknownStudent = errors.New("student is not on this register")

const dateLayout = "2006-01-02"

// Attendance is the register of one class, section and date. Marks are
// kept locally until Submit.
type Attendance struct {
	screen

	mu        sync.Mutex
	className string
	section   string
	date      string
	records   []models.AttendanceRecord
	stale     bool
}

func NewAttendance(d Deps) *Attendance {
	return &Attendance{screen: newScreen(d)}
}

// Load fetches the saved register. When nothing was saved for that day the
// class roster is loaded instead with everyone marked present.
func (a *Attendance) Load(ctx context.Context, s session.Session, className, section, date string) error {
	if err := staffOnly(s); err != nil {
		return err
	}
	if date == "" {
		date = a.deps.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be a date (YYYY-MM-DD)", ErrInvalidInput)
	}

	params := s.With("class", className, "section", section, "date", date)
	recs, res, err := fetchAs[[]models.AttendanceRecord](ctx, a.fetch, client.ActionGetAttendance, params)
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		var students []models.Student
		students, res, err = fetchAs[[]models.Student](ctx, a.fetch, client.ActionGetStudents, s.With("class", className, "section", section))
		if err != nil {
			return err
		}
		recs = make([]models.AttendanceRecord, 0, len(students))
		for _, st := range students {
			recs = append(recs, models.AttendanceRecord{
				StudentID: st.ID,
				Name:      st.Name,
				RollNo:    st.RollNo,
				Status:    models.Present,
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return rollLess(recs[i].RollNo, recs[j].RollNo) })

	a.mu.Lock()
	defer a.mu.Unlock()
	a.className, a.section, a.date = className, section, date
	a.records = recs
	a.stale = res.Stale
	return nil
}

func rollLess(a, b models.FlexString) bool {
	as, bs := strings.TrimSpace(a.String()), strings.TrimSpace(b.String())
	if len(as) != len(bs) {
		return len(as) < len(bs)
	}
	return as < bs
}

func (a *Attendance) Records() []models.AttendanceRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AttendanceRecord(nil), a.records...)
}

func (a *Attendance) Stale() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stale
}

// Mark sets one student's status. The student may be named by id or roll number.
func (a *Attendance) Mark(student string, status models.AttendanceStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.records {
		r := &a.records[i]
		if r.StudentID.String() == student || r.RollNo.String() == student {
			r.Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownStudent, student)
}

func (a *Attendance) MarkAll(status models.AttendanceStatus) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.records {
		a.records[i].Status = status
	}
}

// Summary counts the register.
func (a *Attendance) Summary() (present, absent, leave int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.records {
		switch r.Status {
		case models.Present:
			present++
		case models.Absent:
			absent++
		case models.OnLeave:
			leave++
		}
	}
	return present, absent, leave
}

type attendanceMark struct {
	StudentID string                  `json:"student_id"`
	Status    models.AttendanceStatus `json:"status"`
}

// Submit saves the register.
func (a *Attendance) Submit(ctx context.Context, s session.Session) error {
	if err := staffOnly(s); err != nil {
		return err
	}

	a.mu.Lock()
	className, section, date := a.className, a.section, a.date
	marks := make([]attendanceMark, 0, len(a.records))
	for _, r := range a.records {
		marks = append(marks, attendanceMark{StudentID: r.StudentID.String(), Status: r.Status})
	}
	a.mu.Unlock()

	if len(marks) == 0 {
		return fmt.Errorf("%w: nothing to submit", ErrInvalidInput)
	}

	body, err := json.Marshal(marks)
	if err != nil {
		return fmt.Errorf("encode register: %w", err)
	}

	params := s.With("class", className, "section", section, "date", date, "records", string(body))
	record := "attendance:" + className + ":" + section + ":" + date
	if _, err := a.write(ctx, record, client.ActionMarkAttendance, params); err != nil {
		return err
	}

	a.reconcile(ctx, "attendance", func(ctx context.Context) error {
		return a.Load(ctx, s, className, section, date)
	})
	return nil
}
