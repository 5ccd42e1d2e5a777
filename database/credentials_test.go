package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questpath/config"
)

// Runs against a real Postgres when QUESTPATH_TEST_DSN is set.
func TestPostgresCredentials(t *testing.T) {
	dsn := os.Getenv("QUESTPATH_TEST_DSN")
	if dsn == "" {
		t.Skip("QUESTPATH_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, InitDB(ctx, db))

	creds := NewPostgresCredentials(db)
	sess := sessions.NewSession(nil, "test")

	tok, err := creds.Load(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, creds.Save(ctx, sess, "first"))
	require.NoError(t, creds.Save(ctx, sess, "second"))
	tok, err = creds.Load(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	require.NoError(t, creds.Delete(ctx, sess))
	tok, err = creds.Load(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, tok)
}
