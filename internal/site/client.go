package site

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
)

const (
	loginPath              = "/enterprise/account/login"
	requestVerificationKey = "__RequestVerificationToken"
)

// Config holds the client settings, credentials included.
type Config struct {
	BaseURL           string
	Email             string
	Password          string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // zero disables pacing
	CacheSize         int     // catalog responses kept per session; zero disables caching
}

// Authenticator opens sessions. Every top-level operation authenticates its own.
type Authenticator interface {
	Authenticate(ctx context.Context) (Session, error)
}

// Client opens authenticated sessions against the booking site.
type Client struct {
	cfg       Config
	logger    *zap.Logger
	transport http.RoundTripper
}

// NewClient creates a new Client. A nil logger is replaced with a no-op logger.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "site")),
	}
}

// WithTransport returns a copy of the client that sends requests through rt.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	cp := *c
	cp.transport = rt
	return &cp
}

// Authenticate logs in and returns a fresh session. Each call owns its own cookie jar,
// so sessions never share state.
func (c *Client) Authenticate(ctx context.Context) (Session, error) {
	if c.cfg.Email == "" || c.cfg.Password == "" {
		return nil, ErrMissingCredentials
	}

	sess, err := c.newSession()
	if err != nil {
		return nil, err
	}

	token, err := sess.loginToken(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("Email", c.cfg.Email)
	form.Set("Password", c.cfg.Password)
	form.Set(requestVerificationKey, token)

	resp, err := sess.send(ctx, request{
		method:      http.MethodPost,
		path:        loginPath,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindTransport {
			return nil, apperror.Wrap(err, apperror.KindAuthentication, http.StatusBadGateway, "login request failed").WithStep("login")
		}
		return nil, err
	}

	// A rejected login re-renders the login form instead of redirecting away from it.
	if strings.EqualFold(strings.TrimRight(resp.finalURL.Path, "/"), loginPath) {
		c.logger.Warn("login rejected", zap.String("email", c.cfg.Email))
		return nil, ErrLoginRejected
	}

	c.logger.Info("session authenticated", zap.String("email", c.cfg.Email))
	return sess, nil
}

func (c *Client) newSession() (*httpSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	limit := rate.Inf
	if c.cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(c.cfg.RequestsPerSecond)
	}

	sess := &httpSession{
		client: &http.Client{
			Timeout:   c.cfg.Timeout,
			Jar:       jar,
			Transport: c.transport,
		},
		baseURL:   c.cfg.BaseURL,
		userAgent: c.cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    c.logger,
	}

	if c.cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](c.cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog cache: %w", err)
		}
		sess.cache = cache
	}

	return sess, nil
}

// loginToken fetches the login page and extracts the anti-forgery token from its form.
func (s *httpSession) loginToken(ctx context.Context) (string, error) {
	resp, err := s.send(ctx, request{method: http.MethodGet, path: loginPath})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindTransport {
			return "", apperror.Wrap(err, apperror.KindAuthentication, http.StatusBadGateway, "failed to load login page").WithStep("login")
		}
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.body))
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindAuthentication, http.StatusBadGateway, "failed to parse login page").WithStep("login")
	}

	token, ok := doc.Find(`input[name="` + requestVerificationKey + `"]`).First().Attr("value")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrLoginTokenMissing
	}
	return token, nil
}
