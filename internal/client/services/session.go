package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tadpole/internal/client/auth"
	"github.com/dmitrijs2005/tadpole/internal/client/metrics"
	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/validation"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
)

// State is the session state machine position.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedInAdmin
	StateLoggedInUser
)

func (s State) String() string {
	switch s {
	case StateLoggedInAdmin:
		return "logged in (administrator)"
	case StateLoggedInUser:
		return "logged in"
	default:
		return "logged out"
	}
}

// Outcome classifies a login attempt.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeAdministrator
	OutcomeStandardUser
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdministrator:
		return "administrator"
	case OutcomeStandardUser:
		return "user"
	default:
		return "failed"
	}
}

// UserLookup is the read side of the directory the session depends on.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	FindByLogin(ctx context.Context, loginName string) (*models.User, error)
}

// SessionService holds at most one current user.
//
// Contract:
//   - Login: exact, case-sensitive match of login name and credential; a
//     login that names no record is tried as an identifier. Any
//     mismatch yields OutcomeFailed and common.ErrAuthenticationFailed and
//     leaves the current session untouched.
//   - Logout: idempotent; runs the registered logout hooks.
//   - CurrentUser: looks the record up on every call, never caches it.
//   - OnLogout: registers a hook run on every logout.
type SessionService interface {
	Login(ctx context.Context, loginName string, credential []byte) (Outcome, error)
	Logout()
	CurrentUser(ctx context.Context) (*models.User, error)
	State() State
	Token() string
	OnLogout(hook func())
}

// SessionOptions configure NewSessionService.
type SessionOptions struct {
	Secret  []byte
	TTL     time.Duration
	Hasher  *cryptox.Hasher
	Logger  logging.Logger
	Metrics *metrics.Metrics
}

const defaultSessionTTL = 12 * time.Hour

type sessionService struct {
	dir     UserLookup
	secret  []byte
	ttl     time.Duration
	hasher  *cryptox.Hasher
	log     logging.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	token string
	state State
	hooks []func()
}

// NewSessionService returns a logged-out session over dir. A missing secret
// is replaced by a random per-process one.
func NewSessionService(dir UserLookup, opts SessionOptions) SessionService {
	if len(opts.Secret) == 0 {
		opts.Secret = common.GenerateRandByteArray(32)
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultSessionTTL
	}
	if opts.Hasher == nil {
		opts.Hasher = cryptox.NewHasher(cryptox.DefaultParams)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &sessionService{
		dir:     dir,
		secret:  opts.Secret,
		ttl:     opts.TTL,
		hasher:  opts.Hasher,
		log:     opts.Logger.With("module", "session"),
		metrics: opts.Metrics,
	}
}

func (s *sessionService) Login(ctx context.Context, loginName string, credential []byte) (Outcome, error) {
	if err := validation.ValidateLogin(loginName, credential); err != nil {
		s.metrics.Login(OutcomeFailed.String())
		return OutcomeFailed, err
	}

	u, err := s.resolve(ctx, loginName)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.metrics.Login(OutcomeFailed.String())
			return OutcomeFailed, err
		}
		s.hasher.Burn(credential)
		return s.fail(ctx)
	}

	if !s.hasher.Verify(credential, u.Salt, u.Verifier) {
		return s.fail(ctx)
	}

	token, err := auth.GenerateToken(u.ID, s.secret, s.ttl)
	if err != nil {
		return OutcomeFailed, err
	}

	outcome, state := OutcomeStandardUser, StateLoggedInUser
	if u.Role() == models.RoleAdministrator {
		outcome, state = OutcomeAdministrator, StateLoggedInAdmin
	}

	s.mu.Lock()
	s.token = token
	s.state = state
	s.mu.Unlock()

	s.metrics.Login(outcome.String())
	s.log.Info(ctx, "login succeeded", "id", u.ID, "outcome", outcome.String())
	return outcome, nil
}

// resolve finds the record a login refers to: an exact login name first,
// then an identifier typed as "12345678" or "12345678-5".
func (s *sessionService) resolve(ctx context.Context, login string) (*models.User, error) {
	u, err := s.dir.FindByLogin(ctx, login)
	if err == nil || !errors.Is(err, common.ErrorNotFound) {
		return u, err
	}

	id, ok := parseIdentifier(login)
	if !ok {
		return nil, err
	}
	return s.dir.GetUser(ctx, id)
}

// parseIdentifier accepts a positive number with an optional matching
// check digit suffix.
func parseIdentifier(s string) (int64, bool) {
	num, dv, hasDV := strings.Cut(strings.TrimSpace(s), "-")
	id, err := strconv.ParseInt(num, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	if hasDV && validation.MatchCheckDigit(id, dv) != nil {
		return 0, false
	}
	return id, true
}

func (s *sessionService) fail(ctx context.Context) (Outcome, error) {
	s.metrics.Login(OutcomeFailed.String())
	s.log.Info(ctx, "login failed")
	return OutcomeFailed, common.ErrAuthenticationFailed
}

func (s *sessionService) Logout() {
	s.mu.Lock()
	s.token = ""
	s.state = StateLoggedOut
	hooks := append([]func(){}, s.hooks...)
	s.mu.Unlock()

	for _, h := range hooks {
		h()
	}
}

// expire logs out if token is still the current one.
func (s *sessionService) expire(ctx context.Context, token string, reason error) {
	s.mu.Lock()
	current := s.token == token
	s.mu.Unlock()

	if current {
		s.log.Info(ctx, "session ended", "reason", reason.Error())
		s.Logout()
	}
}

func (s *sessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == "" {
		return nil, common.ErrNotLoggedIn
	}

	id, err := auth.GetUserIDFromToken(token, s.secret)
	if err != nil {
		s.expire(ctx, token, err)
		return nil, common.ErrNotLoggedIn
	}

	u, err := s.dir.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.expire(ctx, token, err)
			return nil, common.ErrNotLoggedIn
		}
		return nil, err
	}
	return u, nil
}

func (s *sessionService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *sessionService) OnLogout(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}
