package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/client/models"
)

func TestUnwrap_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "success bool with data", body: `{"success":true,"data":[{"id":1}]}`, want: `[{"id":1}]`},
		{name: "success string", body: `{"success":"1","data":{"a":1}}`, want: `{"a":1}`},
		{name: "success number", body: `{"success":1,"data":[]}`, want: `[]`},
		{name: "status success", body: `{"status":"success","data":{"x":"y"}}`, want: `{"x":"y"}`},
		{name: "inline fields", body: `{"success":true,"user_id":"9"}`, want: `{"success":true,"user_id":"9"}`},
		{name: "bare array", body: ` [{"id":"3"}] `, want: `[{"id":"3"}]`},
		{name: "bare object", body: `{"id":"3","data":1}`, want: `{"id":"3","data":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap("get_notices", []byte(tt.body))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUnwrap_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    error
		message string
	}{
		{name: "success false with error", body: `{"success":false,"error":"Invalid class"}`, kind: ErrRejected, message: "Invalid class"},
		{name: "success string false", body: `{"success":"0","message":"Already marked"}`, kind: ErrRejected, message: "Already marked"},
		{name: "status error", body: `{"status":"error","msg":"Denied"}`, kind: ErrRejected, message: "Denied"},
		{name: "no message", body: `{"success":false}`, kind: ErrRejected, message: "Request failed"},
		{name: "html", body: `<br /><b>Warning</b>`, kind: ErrBadResponse, message: "Invalid response from server"},
		{name: "truncated", body: `{"success":true,`, kind: ErrBadResponse, message: "Invalid response from server"},
		{name: "empty", body: ``, kind: ErrBadResponse, message: "Empty response from server"},
		{name: "weird success", body: `{"success":"perhaps"}`, kind: ErrBadResponse, message: "Invalid response from server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unwrap("add_notice", []byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, Message(err))
		})
	}
}

func TestDecode(t *testing.T) {
	notices, err := Decode[[]models.Notice](ActionGetNotices, []byte(`[{"id":5,"title":"Holiday"}]`))
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, models.FlexString("5"), notices[0].ID)

	empty, err := Decode[[]models.Notice](ActionGetNotices, []byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = Decode[[]models.Notice](ActionGetNotices, []byte(`{"id":1}`))
	require.ErrorIs(t, err, ErrBadResponse)
}
