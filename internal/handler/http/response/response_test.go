package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeFields(t *testing.T) {
	decode := func(rec *httptest.ResponseRecorder) map[string]json.RawMessage {
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	rec := httptest.NewRecorder()
	Success(rec, []string{"A0001"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(rec)
	assert.Len(t, body, 2)
	assert.JSONEq(t, `["A0001"]`, string(body["data"]))

	rec = httptest.NewRecorder()
	Created(rec, "Employee created", map[string]string{"id": "A0002"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	body = decode(rec)
	assert.Len(t, body, 3)
	assert.JSONEq(t, `"Employee created"`, string(body["message"]))

	rec = httptest.NewRecorder()
	Error(rec, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode(rec)
	assert.Len(t, body, 2)
	assert.JSONEq(t, `{"code":"UNHEALTHY","message":"database unreachable"}`, string(body["error"]))
}
