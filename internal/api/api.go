package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/handler"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/media"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/static"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	engine    *engine.Engine
	http      *http.Server
}

func New(cfg *config.Config, e *engine.Engine, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if e == nil {
		return nil, fmt.Errorf("engine is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestLogger(), gzip.Gzip(gzip.DefaultCompression))

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		engine:    e,
	}
	s.setupSession()
	s.setupRoutes()
	s.setupAdminRoutes()
	return s, nil
}

func requestLogger() gin.HandlerFunc {
	logger := log.Default().WithPrefix("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
		for _, err := range c.Errors {
			logger.Error("request error", "path", c.Request.URL.Path, "error", err.Err)
		}
	}
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(auth.SessionName, store), auth.LoadUser(s.engine))
}

func (s *Server) setupRoutes() {
	h := handler.New(s.engine, s.cfg)

	s.ginEngine.StaticFS(static.Prefix, http.FS(static.FS()))
	if dir, ok := s.engine.Media().LocalDir(); ok {
		s.ginEngine.Static(media.LocalPrefix, dir)
	}

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET("/news", h.News)
	s.ginEngine.GET("/post/:id", h.Post)
	s.ginEngine.GET("/tournaments", h.Tournaments)
	s.ginEngine.GET("/tournament/:id", h.Tournament)
	s.ginEngine.GET("/contact", h.ContactPage)
	s.ginEngine.POST("/contact", h.Contact)

	s.ginEngine.GET("/register", h.RegisterPage)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.GET("/verify_email/:token", h.VerifyEmail)
	s.ginEngine.GET("/login", h.LoginPage)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/reset_password", h.ResetRequestPage)
	s.ginEngine.POST("/reset_password", h.ResetRequest)
	s.ginEngine.GET("/reset_password/:token", h.ResetTokenPage)
	s.ginEngine.POST("/reset_password/:token", h.ResetPassword)

	protected := s.ginEngine.Group("/")
	protected.Use(auth.RequireAuth())

	protected.POST("/logout", h.Logout)
	protected.GET("/profile", h.Profile)
	protected.POST("/profile", h.UpdateProfile)
	protected.POST("/profile/password", h.ChangePassword)
	protected.GET("/delete_account", h.DeleteAccountPage)
	protected.POST("/delete_account", h.DeleteAccount)
	protected.POST("/tournament/:id/register", h.RegisterForTournament)
	protected.POST("/tournament/:id/unregister", h.UnregisterFromTournament)

	// post management and the export live outside /admin but need the same gate
	staff := s.ginEngine.Group("/")
	staff.Use(auth.RequireAdmin())

	staff.GET("/posts/new", h.NewPostPage)
	staff.POST("/posts/new", h.CreatePost)
	staff.GET("/post/:id/update", h.EditPostPage)
	staff.POST("/post/:id/update", h.UpdatePost)
	staff.POST("/post/:id/delete", h.DeletePost)
	staff.GET("/tournament/:id/registrations.json", h.ExportRegistrations)
}

func (s *Server) setupAdminRoutes() {
	h := handler.NewAdmin(handler.New(s.engine, s.cfg))

	adminGroup := s.ginEngine.Group("/admin")
	adminGroup.Use(auth.RequireAdmin())

	adminGroup.GET("/dashboard", h.Dashboard)
	adminGroup.GET("/users", h.Users)
	adminGroup.GET("/user/:id/toggle_admin_confirm", h.ToggleAdminPage)
	adminGroup.POST("/user/:id/toggle_admin_confirm", h.ToggleAdmin)
	adminGroup.POST("/user/:id/delete", h.DeleteUser)

	adminGroup.GET("/posts", h.Posts)
	adminGroup.POST("/post/:id/delete", h.DeletePost)

	adminGroup.GET("/tournaments", h.Tournaments)
	adminGroup.GET("/tournaments/new", h.NewTournamentPage)
	adminGroup.POST("/tournaments/new", h.CreateTournament)
	adminGroup.GET("/tournament/:id/update", h.EditTournamentPage)
	adminGroup.POST("/tournament/:id/update", h.UpdateTournament)
	adminGroup.POST("/tournament/:id/delete", h.DeleteTournament)
	adminGroup.POST("/tournament/:id/delete_registration/:user_id", h.DeleteRegistration)
	adminGroup.GET("/tournament/:id/manage_winners", h.ManageWinnersPage)
	adminGroup.POST("/tournament/:id/manage_winners", h.AddWinner)
	adminGroup.POST("/winner/:id/delete", h.DeleteWinner)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for running requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
