package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/cache"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/challenge"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/media"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/notify/email"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/token"
)

// UsernameChangeCooldown is the minimum time between two username changes.
const UsernameChangeCooldown = 14 * 24 * time.Hour

// Mailer delivers the site's transactional mails.
type Mailer interface {
	SendVerification(to, name, link string) error
	SendPasswordReset(to, name, link string) error
	SendDeletionCode(to, name, code string, validity time.Duration) error
	SendContactMessage(msg email.ContactMessage) error
}

// Engine implements the club's business operations on top of the store.
type Engine struct {
	cfg        *config.Config
	db         database.DB
	tokens     *token.Service
	challenges *challenge.Store
	mailer     Mailer
	media      *media.Store
	now        func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMailer replaces the SMTP mailer.
func WithMailer(m Mailer) Option {
	return func(e *Engine) { e.mailer = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMedia replaces the image store built from the uploads config.
func WithMedia(m *media.Store) Option {
	return func(e *Engine) { e.media = m }
}

// WithChallengeStore replaces the challenge store built from the cache config.
func WithChallengeStore(s *challenge.Store) Option {
	return func(e *Engine) { e.challenges = s }
}

// New creates an Engine.
func New(ctx context.Context, cfg *config.Config, db database.DB, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	e := &Engine{
		cfg: cfg,
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.tokens = token.New(cfg.SecretKey, e.clock)

	if e.mailer == nil {
		e.mailer = email.New(cfg.Email)
	}
	if e.challenges == nil {
		e.challenges = challenge.NewStore(cache.New(cfg.Cache), challenge.DefaultTTL)
	}
	if e.media == nil {
		m, err := media.New(ctx, cfg.Uploads, database.DefaultImage)
		if err != nil {
			return nil, fmt.Errorf("failed to create media store: %w", err)
		}
		e.media = m
	}

	return e, nil
}

// clock returns the current time in UTC. Everything is stored in UTC.
func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

// Media returns the image store.
func (e *Engine) Media() *media.Store {
	return e.media
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock()
}

func (e *Engine) link(path string) string {
	return e.cfg.ServerURL + path
}

// ChallengeTTL returns how long a mailed confirmation code stays valid.
func (e *Engine) ChallengeTTL() time.Duration {
	return e.challenges.TTL()
}
