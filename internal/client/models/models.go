// Package models defines the records exchanged with the school API.
//
// The backend owns these records; the client only displays them and sends
// them back. Field names follow the API's JSON.
package models

import (
	"strings"
)

// Roles reported by login.
const (
	RoleStudent   = "student"
	RoleParent    = "parent"
	RoleTeacher   = "teacher"
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
)

// IsStaff reports whether role may post notices, assign homework, mark
// attendance and act on leaves and complaints.
func IsStaff(role string) bool {
	switch strings.ToLower(role) {
	case RoleTeacher, RoleAdmin, RolePrincipal:
		return true
	}
	return false
}

// LoginResponse is the user block returned by the login action.
type LoginResponse struct {
	UserID    FlexString `json:"user_id"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	ClassName FlexString `json:"class"`
	Section   string     `json:"section"`
	Token     string     `json:"token"`
}

type Notice struct {
	ID       FlexString `json:"id"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Date     string     `json:"date"`
	PostedBy string     `json:"posted_by"`
	Audience string     `json:"audience"`
}

type Homework struct {
	ID             FlexString `json:"id"`
	ClassName      FlexString `json:"class"`
	Section        string     `json:"section"`
	Subject        string     `json:"subject"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        string     `json:"due_date"`
	AttachmentPath string     `json:"attachment"`
	AssignedBy     string     `json:"assigned_by"`
}

type Student struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	RollNo    FlexString `json:"roll_no"`
	ClassName FlexString `json:"class"`
	Section   string     `json:"section"`
}

// AttendanceStatus is a single mark on the register.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	OnLeave AttendanceStatus = "leave"
)

// ParseAttendanceStatus accepts the full words and their initials.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "present":
		return Present, true
	case "a", "absent":
		return Absent, true
	case "l", "leave":
		return OnLeave, true
	}
	return "", false
}

type AttendanceRecord struct {
	StudentID FlexString       `json:"student_id"`
	Name      string           `json:"name"`
	RollNo    FlexString       `json:"roll_no"`
	Status    AttendanceStatus `json:"status"`
}

type FeeDue struct {
	StudentID FlexString `json:"student_id"`
	Name      string     `json:"name"`
	ClassName FlexString `json:"class"`
	Month     string     `json:"month"`
	Amount    FlexFloat  `json:"amount"`
	Paid      FlexFloat  `json:"paid"`
	Due       FlexFloat  `json:"due"`
}

type Receipt struct {
	ReceiptNo FlexString `json:"receipt_no"`
	StudentID FlexString `json:"student_id"`
	Name      string     `json:"name"`
	Amount    FlexFloat  `json:"amount"`
	Mode      string     `json:"mode"`
	Months    string     `json:"months"`
	Date      string     `json:"date"`
}

// Leave statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type Leave struct {
	ID             FlexString `json:"id"`
	StudentID      FlexString `json:"student_id"`
	Name           string     `json:"name"`
	FromDate       string     `json:"from_date"`
	ToDate         string     `json:"to_date"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	AttachmentPath string     `json:"attachment"`
	AppliedOn      string     `json:"applied_on"`
}

// Complaint statuses.
const (
	ComplaintOpen     = "open"
	ComplaintResolved = "resolved"
)

type Complaint struct {
	ID          FlexString `json:"id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RaisedBy    string     `json:"raised_by"`
	Response    string     `json:"response"`
	Date        string     `json:"date"`
}

type SubjectMark struct {
	Subject  string    `json:"subject"`
	MaxMarks FlexFloat `json:"max_marks"`
	Obtained FlexFloat `json:"obtained"`
	Grade    string    `json:"grade"`
}

type ExamReport struct {
	StudentID FlexString    `json:"student_id"`
	Name      string        `json:"name"`
	ClassName FlexString    `json:"class"`
	Exam      string        `json:"exam"`
	Subjects  []SubjectMark `json:"subjects"`
}

// Totals sums the marks. Percent is 0 when no maximum is recorded.
func (r ExamReport) Totals() (obtained, outOf, percent float64) {
	for _, s := range r.Subjects {
		obtained += float64(s.Obtained)
		outOf += float64(s.MaxMarks)
	}
	if outOf > 0 {
		percent = obtained * 100 / outOf
	}
	return obtained, outOf, percent
}
