package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dpsmushkipur/bine/internal/client/models"
)

// Unwrap reads one api.php response body and returns its payload.
//
// Accepted shapes:
//
//	{"success": true|"1"|1, "data": ...}        payload is data
//	{"status": "success"|"error", "message": ...}
//	{"success": true, "user_id": ...}           payload is the whole object
//	[...] or {...} with neither key               payload is the body
//
// A falsy success or an error status yields a KindRejected *Error carrying
// the server's error or message field.
func Unwrap(action string, body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &Error{Kind: KindBadResponse, Action: action, Message: "Empty response from server"}
	}

	switch body[0] {
	case '[':
		if !json.Valid(body) {
			return nil, badJSON(action, errors.New("invalid json array"))
		}
		return json.RawMessage(body), nil
	case '{':
	default:
		return nil, badJSON(action, errors.New("response is not a json object or array"))
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, badJSON(action, err)
	}

	ok, decided, err := outcome(env)
	if err != nil {
		return nil, badJSON(action, err)
	}
	if decided && !ok {
		return nil, &Error{Kind: KindRejected, Action: action, Message: serverMessage(env)}
	}

	if data, found := env["data"]; found && decided {
		return data, nil
	}
	return json.RawMessage(body), nil
}

// outcome reports the success flag if the envelope carries one.
func outcome(env map[string]json.RawMessage) (ok, decided bool, err error) {
	if raw, found := env["success"]; found {
		var v models.FlexBool
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, false, err
		}
		return bool(v), true, nil
	}
	if raw, found := env["status"]; found {
		var s models.FlexString
		if err := json.Unmarshal(raw, &s); err != nil {
			return false, false, err
		}
		switch strings.ToLower(s.String()) {
		case "success", "ok", "true", "1":
			return true, true, nil
		case "error", "fail", "failed", "false", "0":
			return false, true, nil
		}
	}
	return false, false, nil
}

func serverMessage(env map[string]json.RawMessage) string {
	for _, k := range []string{"error", "message", "msg"} {
		if raw, found := env[k]; found {
			var s models.FlexString
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s.String()
			}
		}
	}
	return "Request failed"
}

func badJSON(action string, err error) *Error {
	return &Error{Kind: KindBadResponse, Action: action, Message: "Invalid response from server", Err: err}
}

// Decode parses a payload returned by Fetch or Do into T. An empty payload or
// JSON null decodes to the zero value.
func Decode[T any](action string, payload []byte) (T, error) {
	var v T
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, badJSON(action, err)
	}
	return v, nil
}
