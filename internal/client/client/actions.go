package client

// Action names understood by api.php.
const (
	ActionLogin                 = "login"
	ActionGetNotices            = "get_notices"
	ActionAddNotice             = "add_notice"
	ActionGetHomework           = "get_homework"
	ActionAddHomework           = "add_homework"
	ActionGetStudents           = "get_students"
	ActionGetAttendance         = "get_attendance"
	ActionMarkAttendance        = "mark_attendance"
	ActionGetFeeDues            = "get_fee_dues"
	ActionCollectFee            = "collect_fee"
	ActionGetReceipts           = "get_receipts"
	ActionGetLeaves             = "get_leaves"
	ActionApplyLeave            = "apply_leave"
	ActionUpdateLeaveStatus     = "update_leave_status"
	ActionGetComplaints         = "get_complaints"
	ActionAddComplaint          = "add_complaint"
	ActionUpdateComplaintStatus = "update_complaint_status"
	ActionGetExamReport         = "get_exam_report"
)
