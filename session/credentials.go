package session

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const (
	sidKey   = "sid"
	tokenKey = "token"
)

// CredentialStore decides where the bearer token for a browser session
// lives. Callers save the gorilla session after Save or Delete.
type CredentialStore interface {
	Load(ctx context.Context, sess *sessions.Session) (string, error)
	Save(ctx context.Context, sess *sessions.Session, token string) error
	Delete(ctx context.Context, sess *sessions.Session) error
}

// SessionID returns the id stored in sess, assigning a new one if absent.
// The second result reports whether an id was assigned.
func SessionID(sess *sessions.Session) (string, bool) {
	if sid, ok := sess.Values[sidKey].(string); ok && sid != "" {
		return sid, false
	}
	sid := uuid.NewString()
	sess.Values[sidKey] = sid
	return sid, true
}

// CookieCredentials keeps the token inside the encrypted session cookie.
type CookieCredentials struct{}

func (CookieCredentials) Load(_ context.Context, sess *sessions.Session) (string, error) {
	token, _ := sess.Values[tokenKey].(string)
	return token, nil
}

func (CookieCredentials) Save(_ context.Context, sess *sessions.Session, token string) error {
	sess.Values[tokenKey] = token
	return nil
}

func (CookieCredentials) Delete(_ context.Context, sess *sessions.Session) error {
	delete(sess.Values, tokenKey)
	return nil
}

// CookieKeys derives the securecookie hash and block keys from secret.
func CookieKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("questpath session cookie"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err = io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err = io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}

func NewCookieStore(secret string, maxAge int, secure bool) (*sessions.CookieStore, error) {
	hashKey, blockKey, err := CookieKeys(secret)
	if err != nil {
		return nil, err
	}
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}
