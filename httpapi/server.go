package httpapi

import (
	"context"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	relay "github.com/goliatone/go-relay"
	"github.com/goliatone/go-relay/auth"
	"github.com/goliatone/go-relay/core"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the echo HTTP surface in front of the relay facade.
type Server struct {
	cfg             Config
	echo            *echo.Echo
	facade          *relay.Facade
	verifier        auth.SignatureVerifier
	sessions        sessions.Store
	logger          core.Logger
	handshakeClient *http.Client
}

type Option func(*Server)

func WithLogger(logger core.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHandshakeClient routes OAuth1 token exchanges through client.
func WithHandshakeClient(client *http.Client) Option {
	return func(s *Server) {
		s.handshakeClient = client
	}
}

func WithSessionStore(store sessions.Store) Option {
	return func(s *Server) {
		s.sessions = store
	}
}

func New(cfg Config, facade *relay.Facade, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if facade == nil {
		return nil, core.NewServiceError("httpapi: relay facade is required", nil)
	}
	cfg = cfg.withDefaults()

	s := &Server{
		cfg:      cfg,
		facade:   facade,
		verifier: auth.NewSignatureVerifier(cfg.SigningKey),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = glog.Ensure(s.logger)
	if s.sessions == nil {
		store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
		store.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   int((15 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   !cfg.Development,
			SameSite: http.SameSiteLaxMode,
		}
		s.sessions = store
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(middleware.CORSWithConfig(s.corsConfig()))
	s.echo = e
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/events", s.listEvents)
	s.echo.POST("/events", s.createEvent,
		middleware.BodyLimit(s.cfg.BodyLimit),
		SignatureMiddleware(s.verifier, s.cfg.Development),
	)
	s.echo.GET("/integrations", s.listIntegrations)
	s.echo.GET("/integrations/:key", s.showIntegration)
	s.echo.POST("/oauth/request-token", s.requestToken)
	s.echo.GET("/oauth/access-token", s.accessToken)
}

func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				s.logger.Error("request failed", append(args, "error", v.Error.Error())...)
				return nil
			}
			s.logger.Info("request handled", args...)
			return nil
		},
	})
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
