package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, size int) *Registry {
	t.Helper()
	be := newFakeBackend()
	reg, err := NewRegistry(size, func(credential string) *Store {
		return NewStore(credential, be.connect)
	})
	require.NoError(t, err)
	return reg
}

func TestRegistry_GetReturnsSameStore(t *testing.T) {
	reg := newTestRegistry(t, 8)

	a := reg.Get("sid-1", "tok")
	b := reg.Get("sid-1", "tok")
	c := reg.Get("sid-2", "tok")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_CredentialChangeReplacesStore(t *testing.T) {
	reg := newTestRegistry(t, 8)

	a := reg.Get("sid-1", "old")
	b := reg.Get("sid-1", "new")

	assert.NotSame(t, a, b)
	assert.Equal(t, "new", b.Credential())
}

func TestRegistry_Reset(t *testing.T) {
	reg := newTestRegistry(t, 8)

	a := reg.Get("sid-1", "")
	events, _ := a.Subscribe()
	b := reg.Reset("sid-1", "tok")

	assert.NotSame(t, a, b)
	_, open := <-events
	assert.False(t, open, "replaced store releases its subscribers")
	assert.Same(t, b, reg.Get("sid-1", "tok"))
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	reg := newTestRegistry(t, 2)

	first := reg.Get("a", "")
	reg.Get("b", "")
	reg.Get("c", "")

	assert.Equal(t, 2, reg.Len())
	assert.NotSame(t, first, reg.Get("a", ""))
}

func TestRegistry_RejectsBadSize(t *testing.T) {
	_, err := NewRegistry(0, func(string) *Store { return nil })
	require.Error(t, err)
}

func TestSessionID_AssignsOnce(t *testing.T) {
	sess := sessions.NewSession(nil, "test")

	sid, fresh := SessionID(sess)
	require.True(t, fresh)
	require.NotEmpty(t, sid)

	again, fresh := SessionID(sess)
	assert.False(t, fresh)
	assert.Equal(t, sid, again)
}

func TestCookieCredentials(t *testing.T) {
	ctx := context.Background()
	sess := sessions.NewSession(nil, "test")
	var creds CookieCredentials

	tok, err := creds.Load(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, creds.Save(ctx, sess, "abc"))
	tok, _ = creds.Load(ctx, sess)
	assert.Equal(t, "abc", tok)

	require.NoError(t, creds.Delete(ctx, sess))
	tok, _ = creds.Load(ctx, sess)
	assert.Empty(t, tok)
}

func TestCookieKeys_Deterministic(t *testing.T) {
	h1, b1, err := CookieKeys("0123456789abcdef")
	require.NoError(t, err)
	h2, b2, _ := CookieKeys("0123456789abcdef")
	h3, _, _ := CookieKeys("another-secret-value")

	assert.Len(t, h1, 64)
	assert.Len(t, b1, 32)
	assert.Equal(t, h1, h2)
	assert.Equal(t, b1, b2)
	assert.NotEqual(t, h1, h3)
}

func TestNewCookieStore_RoundTrip(t *testing.T) {
	store, err := NewCookieStore("0123456789abcdef", 3600, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := store.Get(req, "qp")
	require.NoError(t, err)
	sess.Values[tokenKey] = "secret-token"
	require.NoError(t, sess.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "secret-token")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := store.Get(next, "qp")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", loaded.Values[tokenKey])
}
