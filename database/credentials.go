// database/credentials.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gorilla/sessions"

	"questpath/session"
)

// PostgresCredentials keeps bearer tokens server-side. The browser cookie
// then carries only the session id.
type PostgresCredentials struct {
	db *sql.DB
}

func NewPostgresCredentials(db *sql.DB) *PostgresCredentials {
	return &PostgresCredentials{db: db}
}

var _ session.CredentialStore = (*PostgresCredentials)(nil)

func (p *PostgresCredentials) Load(ctx context.Context, sess *sessions.Session) (string, error) {
	sid, _ := session.SessionID(sess)

	var token string
	err := p.db.QueryRowContext(ctx,
		`SELECT token FROM session_credentials WHERE session_id = $1`, sid,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return token, nil
}

func (p *PostgresCredentials) Save(ctx context.Context, sess *sessions.Session, token string) error {
	sid, _ := session.SessionID(sess)

	_, err := p.db.ExecContext(ctx, `
        INSERT INTO session_credentials (session_id, token, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (session_id) DO UPDATE SET
            token = EXCLUDED.token,
            updated_at = NOW()
    `, sid, token)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (p *PostgresCredentials) Delete(ctx context.Context, sess *sessions.Session) error {
	sid, _ := session.SessionID(sess)

	if _, err := p.db.ExecContext(ctx, `DELETE FROM session_credentials WHERE session_id = $1`, sid); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
