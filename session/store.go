// Package session holds the per-browser-session user state: the cached
// user record, its authentication state and the derived level, behind a
// narrow Refresh/Logout API.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"questpath/apiclient"
	"questpath/models"
	"questpath/progression"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var ErrNoSession = errors.New("session: not authenticated")

// Backend is the slice of the API the store needs.
type Backend interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// Connector returns a Backend that authenticates as token.
type Connector func(token string) Backend

// Event is published to subscribers whenever the state or user changes.
type Event struct {
	State State        `json:"state"`
	User  *models.User `json:"user,omitempty"`
}

type Store struct {
	mu    sync.RWMutex
	state State
	token string
	user  *models.User

	credential  string
	connect     Connector
	log         *slog.Logger
	initTimeout time.Duration
	now         func() time.Time

	startOnce sync.Once
	ready     chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
	closed  bool

	flightMu sync.Mutex
	inflight map[string]struct{}
}

type StoreOption func(*Store)

func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

func WithInitTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.initTimeout = d }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns a store in the loading state for the given credential.
// Nothing is fetched until Init or Resolve.
func NewStore(credential string, connect Connector, opts ...StoreOption) *Store {
	s := &Store{
		state:       StateLoading,
		token:       credential,
		credential:  credential,
		connect:     connect,
		log:         slog.Default(),
		initTimeout: 10 * time.Second,
		now:         time.Now,
		ready:       make(chan struct{}),
		subs:        make(map[int]chan Event),
		inflight:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credential is the token the store was created with.
func (s *Store) Credential() string { return s.credential }

func (s *Store) start() {
	s.startOnce.Do(func() {
		go func() {
			defer close(s.ready)
			ctx, cancel := context.WithTimeout(context.Background(), s.initTimeout)
			defer cancel()
			s.initialize(ctx)
		}()
	})
}

// Init loads the current user once and blocks until the store has left
// the loading state or ctx is done.
func (s *Store) Init(ctx context.Context) State {
	s.start()
	select {
	case <-s.ready:
	case <-ctx.Done():
	}
	return s.State()
}

// Resolve starts initialisation if needed and waits at most wait for it.
// The returned state may still be StateLoading.
func (s *Store) Resolve(ctx context.Context, wait time.Duration) State {
	s.start()
	if wait <= 0 {
		return s.State()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-s.ready:
	case <-timer.C:
	case <-ctx.Done():
	}
	return s.State()
}

func (s *Store) initialize(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		s.settle(token, StateAnonymous, nil)
		return
	}
	if credentialExpired(token, s.now()) {
		s.log.Info("session credential expired")
		s.settle(token, StateAnonymous, nil)
		return
	}

	u, err := s.connect(token).CurrentUser(ctx)
	if err != nil || u == nil {
		if err != nil {
			s.log.Warn("session init failed", slog.String("error", err.Error()))
		}
		s.settle(token, StateAnonymous, nil)
		return
	}
	s.settle(token, StateAuthenticated, u)
}

// settle applies an init result unless a logout replaced the token while
// the fetch was in flight.
func (s *Store) settle(token string, state State, u *models.User) {
	s.mu.Lock()
	if s.token != token || s.state != StateLoading {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.user = u
	if state == StateAnonymous {
		s.token = ""
	}
	ev := Event{State: s.state, User: s.user}
	s.mu.Unlock()

	s.publish(ev)
}

// Refresh re-fetches the user and replaces the cached copy. A 401 from
// the backend moves the store to anonymous; other errors keep the
// current copy.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return ErrNoSession
	}

	u, err := s.connect(token).CurrentUser(ctx)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			s.expire(token)
		}
		return err
	}

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.user = u
	s.state = StateAuthenticated
	ev := Event{State: s.state, User: u}
	s.mu.Unlock()

	s.publish(ev)
	return nil
}

func (s *Store) expire(token string) {
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	s.publish(Event{State: StateAnonymous})
}

// Observe feeds the outcome of any API call made with the store's token
// back into the store. A 401 makes the store anonymous; Observe reports
// whether that happened.
func (s *Store) Observe(err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	s.expire(s.Token())
	return true
}

// Logout clears the credential and user before returning. Server-side
// invalidation runs in the background and its outcome is only logged.
func (s *Store) Logout() {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	s.publish(Event{State: StateAnonymous})

	if token == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.initTimeout)
		defer cancel()
		if err := s.connect(token).Logout(ctx); err != nil {
			s.log.Warn("backend logout failed", slog.String("error", err.Error()))
		}
	}()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the cached user. The record is never mutated after it is
// stored, so callers may read it without locking.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Snapshot() Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Event{State: s.state, User: s.user}
}

func (s *Store) Level() int {
	return s.XPProgress().Level
}

func (s *Store) XPProgress() progression.Level {
	return s.Snapshot().XPProgress()
}

// XPProgress derives the level of the event's user. An event without a
// user is at the first level.
func (e Event) XPProgress() progression.Level {
	total := 0
	if e.User != nil {
		total = e.User.TotalExp
	}
	return progression.FromTotalXP(total)
}

// Subscribe returns a channel of state changes. Slow readers miss events
// rather than block writers. cancel must be called to release it.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan Event, 8)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close drops all subscribers. The store stays readable.
func (s *Store) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// TryBegin marks action as in flight. It returns false if the same action
// is already running for this session.
func (s *Store) TryBegin(action string) bool {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	if _, busy := s.inflight[action]; busy {
		return false
	}
	s.inflight[action] = struct{}{}
	return true
}

func (s *Store) End(action string) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	delete(s.inflight, action)
}

// credentialExpired reports whether token is a JWT whose exp has passed.
// Opaque tokens and tokens without exp are left to the backend to judge.
func credentialExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
