package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/services"
)

func TestNotices_PrintsAndFilters(t *testing.T) {
	api := newFakeAPI()
	api.payloads[client.ActionGetNotices] = `[{"id":1,"title":"Sports Day","content":"Friday"},{"id":2,"title":"PTM","content":"Saturday"}]`
	app, out := newTestApp(t, api, "")
	app.setSession(studentSession)

	require.NoError(t, app.Notices(context.Background(), []string{"sports"}))
	assert.Contains(t, out.String(), "[1] Sports Day")
	assert.NotContains(t, out.String(), "PTM")
}

func TestNotices_NoMatchDiffersFromEmpty(t *testing.T) {
	api := newFakeAPI()
	api.payloads[client.ActionGetNotices] = `[{"id":1,"title":"Sports Day","content":"Friday"}]`
	app, out := newTestApp(t, api, "")
	app.setSession(studentSession)

	require.NoError(t, app.Notices(context.Background(), []string{"exam"}))
	assert.Contains(t, out.String(), `No notices match "exam"`)

	out.Reset()
	api.payloads[client.ActionGetNotices] = `[]`
	require.NoError(t, app.Notices(context.Background(), []string{"exam"}))
	assert.Equal(t, "No notices\n", out.String())
}

func TestNotices_OfflineShowsSavedNote(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.payloads[client.ActionGetNotices] = `[{"id":1,"title":"Sports Day"}]`
	app, out := newTestApp(t, api, "")
	app.setSession(studentSession)

	require.NoError(t, app.Notices(ctx, nil))
	api.errs[client.ActionGetNotices] = client.ErrUnavailable
	out.Reset()

	require.NoError(t, app.Notices(ctx, nil))
	assert.Contains(t, out.String(), "(offline: saved")
	assert.Contains(t, out.String(), "Sports Day")
}

func TestCollect_ConfirmsAndShowsReceipt(t *testing.T) {
	api := newFakeAPI()
	api.payloads[client.ActionCollectFee] = `{"receipt_no":"R-9","amount":"1,500"}`
	app, out := newTestApp(t, api, "y\n")
	app.setSession(staffSession)

	require.NoError(t, app.Collect(context.Background(), []string{"s9", "1500", "UPI", "May", "June"}))

	calls := api.callsOf(client.ActionCollectFee)
	require.Len(t, calls, 1)
	assert.Equal(t, "upi", calls[0].Get("mode"))
	assert.Equal(t, "May June", calls[0].Get("months"))
	assert.Contains(t, out.String(), "Receipt R-9: ₹1500.00 received")
}

func TestCollect_DeclinedSendsNothing(t *testing.T) {
	api := newFakeAPI()
	app, _ := newTestApp(t, api, "n\n")
	app.setSession(staffSession)

	require.NoError(t, app.Collect(context.Background(), []string{"s9", "100", "cash"}))
	assert.Empty(t, api.callsOf(client.ActionCollectFee))

	err := app.Collect(context.Background(), []string{"s9", "lots", "cash"})
	require.ErrorIs(t, err, errUsage)
}

func TestAttendance_MarkAndSubmit(t *testing.T) {
	api := newFakeAPI()
	api.payloads[client.ActionGetAttendance] = `[]`
	api.payloads[client.ActionGetStudents] = `[{"id":"11","name":"Zed","roll_no":1},{"id":"12","name":"Amy","roll_no":2}]`
	app, out := newTestApp(t, api, "mark 1 a\nmark 2 x\nall\nsubmit\n")
	app.setSession(staffSession)

	require.NoError(t, app.Attendance(context.Background(), []string{"5", "A", "2025-06-02"}))

	assert.Contains(t, out.String(), "status must be p, a or l")
	assert.Contains(t, out.String(), "Attendance saved")

	calls := api.callsOf(client.ActionMarkAttendance)
	require.Len(t, calls, 1)
	var marks []map[string]string
	require.NoError(t, json.Unmarshal([]byte(calls[0].Get("records")), &marks))
	assert.Equal(t, []map[string]string{
		{"student_id": "11", "status": "absent"},
		{"student_id": "12", "status": "present"},
	}, marks)
}

func TestAttendance_Usage(t *testing.T) {
	app, _ := newTestApp(t, newFakeAPI(), "")
	app.setSession(staffSession)
	require.ErrorIs(t, app.Attendance(context.Background(), []string{"5"}), errUsage)
}

func TestApprove_StudentForbidden(t *testing.T) {
	app, _ := newTestApp(t, newFakeAPI(), "")
	app.setSession(studentSession)
	require.ErrorIs(t, app.Approve(context.Background(), []string{"4"}), services.ErrForbidden)
}

func TestReport_StaffNamesStudent(t *testing.T) {
	api := newFakeAPI()
	api.payloads[client.ActionGetExamReport] = `{"name":"Anya","class":5,"exam":"Half Yearly","subjects":[{"subject":"Maths","max_marks":50,"obtained":40,"grade":"A"}]}`
	app, out := newTestApp(t, api, "")
	app.setSession(staffSession)

	require.ErrorIs(t, app.Report(context.Background(), []string{"Half"}), errUsage)

	require.NoError(t, app.Report(context.Background(), []string{"s9", "Half", "Yearly"}))
	call := api.callsOf(client.ActionGetExamReport)[0]
	assert.Equal(t, "s9", call.Get("student_id"))
	assert.Equal(t, "Half Yearly", call.Get("exam"))
	assert.Contains(t, out.String(), "Total 40 / 50 (80.0%)")
}

func TestApply_WithoutAttachment(t *testing.T) {
	api := newFakeAPI()
	app, out := newTestApp(t, api, "2025-06-05\n\nfever\n\n\n")
	app.setSession(studentSession)

	require.NoError(t, app.Apply(context.Background()))

	calls := api.callsOf(client.ActionApplyLeave)
	require.Len(t, calls, 1)
	assert.Equal(t, "2025-06-05", calls[0].Get("to_date"))
	assert.Equal(t, "fever", calls[0].Get("reason"))
	assert.Empty(t, calls[0].Get("attachment"))
	assert.Contains(t, out.String(), "Leave application submitted")
}
