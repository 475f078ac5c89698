// Package api exposes the journal store over HTTP. Every /api/v1 route runs
// against the store of the user named by the bearer token.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/store"
	"go.uber.org/zap"
)

const storeKey = "api.store"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type Options struct {
	Registry *Registry
	JWT      auth.JWT
	Denylist auth.Denylist
	Policy   risk.Policy
	Logger   *zap.Logger
	Version  string

	now func() time.Time
}

type Server struct {
	reg     *Registry
	jwt     auth.JWT
	deny    auth.Denylist
	policy  risk.Policy
	log     *zap.Logger
	version string
	now     func() time.Time
}

func New(opts Options) *Server {
	s := &Server{
		reg:     opts.Registry,
		jwt:     opts.JWT,
		deny:    opts.Denylist,
		policy:  opts.Policy,
		log:     opts.Logger,
		version: opts.Version,
		now:     opts.now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.deny == nil {
		s.deny = auth.NewMemoryDenylist()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)
	return r
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.health)

	authed := auth.Middleware(s.jwt, s.deny)
	r.POST("/auth/signout", authed, s.signOut)

	v1 := r.Group("/api/v1")
	v1.Use(authed, s.withStore())
	{
		v1.GET("/accounts", s.listAccounts)
		v1.POST("/accounts", s.createAccount)
		v1.DELETE("/accounts/:id", s.deleteAccount)
		v1.PUT("/accounts/active", s.switchAccount)

		v1.GET("/trades", s.listTrades)
		v1.POST("/trades", s.createTrade)
		v1.DELETE("/trades/:id", s.deleteTrade)

		v1.GET("/stats", s.stats)
		v1.GET("/equity", s.equity)
		v1.GET("/calendar", s.calendar)
		v1.GET("/symbols", s.symbols)
		v1.GET("/directions", s.directions)
		v1.GET("/recent", s.recent)

		v1.POST("/risk/lots", s.lots)
		v1.POST("/psych/analyze", s.analyze)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// withStore resolves the caller's store and parks it on the context.
func (s *Server) withStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		st, err := s.reg.Get(c.Request.Context(), claims.User())
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		c.Set(storeKey, st)
		c.Next()
	}
}

func storeFrom(c *gin.Context) *store.Store {
	return c.MustGet(storeKey).(*store.Store)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC(),
		Version:   s.version,
	})
}

// signOut revokes the presented token until it would have expired and
// forgets the user's store.
func (s *Server) signOut(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	until := s.now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.deny.Revoke(c.Request.Context(), claims.ID, until); err != nil {
		s.log.Error("revoke token", zap.String("user_id", claims.Subject), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign out failed"})
		return
	}
	if st := s.reg.Drop(claims.Subject); st != nil {
		if err := st.SignOut(c.Request.Context()); err != nil {
			s.log.Warn("store sign out", zap.String("user_id", claims.Subject), zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// fail maps store and backend errors onto status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, store.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, journal.ErrInvalidTrade),
		errors.Is(err, store.ErrInvalidAccount),
		errors.Is(err, store.ErrNoActiveAccount):
		status = http.StatusBadRequest
	case errors.Is(err, journal.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusBadGateway {
		s.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
