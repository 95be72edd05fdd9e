package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashStore_AddThenPop(t *testing.T) {
	store := NewFlashStore()

	rec := httptest.NewRecorder()
	store.Add(rec, httptest.NewRequest(http.MethodPost, "/", nil), FlashMessage{Type: "success", Message: "saved"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, visitorCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	assert.Equal(t, []FlashMessage{{Type: "success", Message: "saved"}}, store.Pop(req))
	assert.Empty(t, store.Pop(req))
	assert.Equal(t, 0, store.Len())
}

func TestFlashStore_ReusesVisitorCookie(t *testing.T) {
	store := NewFlashStore()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: visitorCookieName, Value: "0b0f6f2c-9f63-4f47-8f1b-6a8d1d9f7d10"})

	rec := httptest.NewRecorder()
	store.Add(rec, req, FlashMessage{Message: "one"})
	store.Add(rec, req, FlashMessage{Message: "two"})

	assert.Empty(t, rec.Result().Cookies())
	assert.Len(t, store.Pop(req), 2)
}

func TestFlashStore_IgnoresMalformedCookie(t *testing.T) {
	store := NewFlashStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: visitorCookieName, Value: "not-a-uuid"})

	assert.Nil(t, store.Pop(req))

	rec := httptest.NewRecorder()
	store.Add(rec, req, FlashMessage{Message: "hi"})
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestFlashStore_Expires(t *testing.T) {
	store := NewFlashStore()
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	store.Add(rec, httptest.NewRequest(http.MethodPost, "/", nil), FlashMessage{Message: "stale"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	now = now.Add(flashTTL + time.Second)

	assert.Nil(t, store.Pop(req))
	assert.Equal(t, 0, store.Len())
}
