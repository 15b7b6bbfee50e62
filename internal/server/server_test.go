package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/models"
)

type fakeSubmitter struct {
	got    models.Form
	calls  int
	result handler.Result
}

func (f *fakeSubmitter) Submit(_ context.Context, form models.Form) handler.Result {
	f.calls++
	f.got = form
	return f.result
}

func do(t *testing.T, sub Submitter, method, path, body string) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()
	e := New(sub, []string{"https://invite.example"}, zerolog.Nop())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://invite.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp handler.Response
	if rec.Body.Len() > 0 && method != http.MethodOptions {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestPostRSVP(t *testing.T) {
	sub := &fakeSubmitter{result: handler.Result{State: handler.StateCompleted, Message: handler.ConfirmationMessage}}

	rec, resp := do(t, sub, http.MethodPost, "/rsvp",
		`{"name":"山田太郎","kana":"やまだたろう","email":"a@b.com","attendance":"attend","allergy":"卵"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.ConfirmationMessage, resp.Message)
	assert.Equal(t, "https://invite.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, models.Form{Name: "山田太郎", Kana: "やまだたろう", Email: "a@b.com", Attendance: "attend", Allergy: "卵"}, sub.got)
}

func TestPostRSVPValidationFailure(t *testing.T) {
	sub := &fakeSubmitter{result: handler.Result{State: handler.StateRejectedInvalid, MissingFields: []string{"kana"}}}

	rec, resp := do(t, sub, http.MethodPost, "/rsvp", `{"name":"山田太郎"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"kana"}, resp.MissingFields)
}

func TestPostRSVPEmptyBody(t *testing.T) {
	sub := &fakeSubmitter{result: handler.Result{State: handler.StateRejectedInvalid, MissingFields: []string{"name", "kana", "email", "attendance"}}}

	rec, _ := do(t, sub, http.MethodPost, "/rsvp", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, models.Form{}, sub.got)
}

func TestPostRSVPMalformedJSON(t *testing.T) {
	sub := &fakeSubmitter{}

	rec, resp := do(t, sub, http.MethodPost, "/rsvp", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", resp.Error)
	assert.Zero(t, sub.calls)
}

func TestPostRSVPWrongFieldType(t *testing.T) {
	sub := &fakeSubmitter{}

	rec, resp := do(t, sub, http.MethodPost, "/rsvp", `{"name":1,"attendance":"attend"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", resp.Error)
	assert.Zero(t, sub.calls)
}

func TestPostRSVPStoreFailure(t *testing.T) {
	sub := &fakeSubmitter{result: handler.Result{State: handler.StateRejectedStoreFailure, Cause: "quota exceeded"}}

	rec, resp := do(t, sub, http.MethodPost, "/rsvp", `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "回答の保存に失敗しました: quota exceeded", resp.Error)
}

func TestPreflight(t *testing.T) {
	e := New(&fakeSubmitter{}, []string{"https://invite.example"}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/rsvp", nil)
	req.Header.Set("Origin", "https://invite.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://invite.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	e := New(&fakeSubmitter{}, []string{"*"}, zerolog.Nop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
