package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTypes_AcceptLooseJSON(t *testing.T) {
	var v struct {
		ID     FlexString `json:"id"`
		Roll   FlexString `json:"roll"`
		Amount FlexFloat  `json:"amount"`
		Count  FlexInt    `json:"count"`
		Paid   FlexBool   `json:"paid"`
		Late   FlexBool   `json:"late"`
		Empty  FlexFloat  `json:"empty"`
		Nil    FlexString `json:"nil"`
	}
	body := `{"id":42,"roll":"07","amount":"1,250.50","count":"3","paid":"1","late":false,"empty":"","nil":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &v))

	assert.Equal(t, FlexString("42"), v.ID)
	assert.Equal(t, FlexString("07"), v.Roll)
	assert.InDelta(t, 1250.50, float64(v.Amount), 0.001)
	assert.Equal(t, FlexInt(3), v.Count)
	assert.True(t, bool(v.Paid))
	assert.False(t, bool(v.Late))
	assert.Zero(t, v.Empty)
	assert.Empty(t, v.Nil.String())
}

func TestFlexTypes_Reject(t *testing.T) {
	var s FlexString
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))

	var f FlexFloat
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &f))

	var b FlexBool
	require.Error(t, json.Unmarshal([]byte(`"maybe"`), &b))
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "1", "YES", "success"} {
		ok, err := ParseBool(in)
		require.NoError(t, err)
		assert.True(t, ok, in)
	}
	for _, in := range []string{"false", "0", "", "error"} {
		ok, err := ParseBool(in)
		require.NoError(t, err)
		assert.False(t, ok, in)
	}
}

func TestExamReport_Totals(t *testing.T) {
	r := ExamReport{Subjects: []SubjectMark{
		{Subject: "Maths", MaxMarks: 100, Obtained: 91},
		{Subject: "Hindi", MaxMarks: 100, Obtained: 77},
		{Subject: "EVS", MaxMarks: 50, Obtained: 40},
	}}
	obtained, outOf, pct := r.Totals()
	assert.Equal(t, 208.0, obtained)
	assert.Equal(t, 250.0, outOf)
	assert.InDelta(t, 83.2, pct, 0.0001)

	_, _, pct = ExamReport{}.Totals()
	assert.Zero(t, pct)
}

func TestParseAttendanceStatus(t *testing.T) {
	s, ok := ParseAttendanceStatus("P")
	assert.True(t, ok)
	assert.Equal(t, Present, s)

	s, ok = ParseAttendanceStatus("leave")
	assert.True(t, ok)
	assert.Equal(t, OnLeave, s)

	_, ok = ParseAttendanceStatus("late")
	assert.False(t, ok)
}

func TestIsStaff(t *testing.T) {
	assert.True(t, IsStaff("Teacher"))
	assert.True(t, IsStaff("admin"))
	assert.False(t, IsStaff("student"))
	assert.False(t, IsStaff(""))
}
