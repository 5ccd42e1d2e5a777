package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questpath/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{ID: 1, Email: "a@b.c"})
	})

	_, err := c.WithToken("tok-123").CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, present)
}

func TestWithToken_DoesNotMutateParent(t *testing.T) {
	c := New("http://example.invalid", time.Second)
	authed := c.WithToken("abc")

	assert.Equal(t, "", c.Token())
	assert.Equal(t, "abc", authed.Token())
}

func TestCreateGoal_SendsDescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/goals", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateGoalRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Learn Rust", req.Description)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42, "title": "Learn Rust", "status": "not_started"}`))
	})

	g, err := c.WithToken("t").CreateGoal(context.Background(), "Learn Rust")
	require.NoError(t, err)
	assert.Equal(t, 42, g.ID)
	assert.Equal(t, models.StatusNotStarted, g.Status)
}

func TestLeaderboard_Decodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"leaderboard": [
				{"rank": 1, "user_id": 9, "email": "top@x.io", "total_exp": 900},
				{"rank": 2, "user_id": 3, "email": "me@x.io", "total_exp": 400}
			],
			"current_user": {"rank": 2, "user_id": 3, "email": "me@x.io", "total_exp": 400}
		}`))
	})

	lb, err := c.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, 9, lb.Entries[0].UserID)
	assert.Equal(t, 2, lb.CurrentUser.Rank)
}

func TestCurrentUserAndGoals_NaiveTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			w.Write([]byte(`{"id": 3, "email": "me@x.io", "total_exp": 150,
				"created_at": "2025-03-01T10:00:00.123456", "updated_at": "2025-03-01T10:00:00.123456"}`))
		case "/goals/me":
			w.Write([]byte(`[{"id": 1, "title": "Learn Go", "created_at": "2025-03-01T10:00:00.123456"}]`))
		}
	})

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	goals, err := c.MyGoals(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Learn Go", goals[0].Title)
}

func TestDo_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantDetail bool
	}{
		{"validation list", 422, `{"detail": [{"msg": "field required"}]}`, "field required", true},
		{"list takes first", 422, `{"detail": [{"msg": "first"}, {"msg": "second"}]}`, "first", true},
		{"string detail", 400, `{"detail": "Goal already exists"}`, "Goal already exists", true},
		{"object with msg", 400, `{"detail": {"msg": "Too vague"}}`, "Too vague", true},
		{"object without msg", 400, `{"detail": {"code": "E1"}}`, `{"code": "E1"}`, true},
		{"empty list", 422, `{"detail": []}`, GenericMessage, false},
		{"no detail", 500, `{"error": "boom"}`, GenericMessage, false},
		{"non json", 502, `<html>bad gateway</html>`, GenericMessage, false},
		{"empty body", 503, ``, GenericMessage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.MyGoals(context.Background())
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.False(t, apiErr.Network)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantDetail, apiErr.HasDetail)
		})
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Network)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, NetworkMessage, MessageOr(err, "fallback"))
}

func TestIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Not authenticated"}`))
	})

	_, err := c.CurrentUser(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsUnauthorized(nil))
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "fallback", MessageOr(assert.AnError, "fallback"))
	assert.Equal(t, "fallback", MessageOr(&Error{Status: 500, Message: GenericMessage}, "fallback"))
	assert.Equal(t, "nope", MessageOr(&Error{Status: 400, Message: "nope", HasDetail: true}, "fallback"))
}
