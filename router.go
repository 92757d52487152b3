package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/auth"
	"github.com/dishaapp/disha/pkg/coach"
	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/handler"
	"github.com/dishaapp/disha/pkg/service"
	"github.com/dishaapp/disha/pkg/utils"
)

type Server struct {
	ginEngine *gin.Engine
	logger    *slog.Logger
	cfg       *config.AppConfig
	db        *gorm.DB
	emitter   *event.Emitter
	port      int

	unsubscribeSummary func()
}

func NewServer(cfg *config.AppConfig, gdb *gorm.DB) *Server {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// CORS: the web client runs on localhost dev origins; cookies are in
	// play so the origin is echoed, never wildcarded.
	ginEngine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			allowed := strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1") ||
				strings.HasPrefix(origin, "https://localhost") ||
				strings.HasPrefix(origin, "https://127.0.0.1")
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	server := &Server{
		ginEngine: ginEngine,
		logger:    utils.GetLogger(),
		cfg:       cfg,
		db:        gdb,
		emitter:   event.NewEmitter(),
	}
	server.SetupRoutes()
	return server
}

func (s *Server) SetupRoutes() {
	settingsCache := ai.NewSettingsCache(time.Duration(s.cfg.SettingsTTLSeconds())*time.Second, nil)
	settingsService := service.NewSettingsService(s.db, s.cfg, settingsCache, s.emitter)

	contextService := service.NewContextService(s.db)
	prefService := service.NewPreferenceService(s.db)
	policy := coach.NewPolicy(s.cfg.BlockedTerms())

	chatService := service.NewChatService(s.db, settingsService, contextService, prefService, policy, s.emitter)
	summaryService := service.NewSummaryService(s.db, settingsService, s.emitter)
	s.unsubscribeSummary = summaryService.Subscribe()

	goalService := service.NewGoalService(s.db, s.emitter)
	suggestionService := service.NewSuggestionService(s.db, settingsService, contextService, prefService)

	userService := service.NewUserService(s.db)
	sessions := auth.NewSessions(s.cfg.SessionSecret())

	api := s.ginEngine.Group("/api/v1")

	authHandler := handler.NewAuthHandler(userService, sessions)
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(sessions.Middleware())

	authHandler.RegisterRoutes(protected)
	handler.NewChatHandler(chatService).RegisterRoutes(protected)
	handler.NewGoalHandler(goalService, suggestionService).RegisterRoutes(protected)
	handler.NewPreferenceHandler(prefService).RegisterRoutes(protected)
	handler.NewAdminHandler(settingsService, userService).RegisterRoutes(protected)

	protected.GET("/events/ws", event.NewWSHandler(s.emitter).Handle)

	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host(), s.cfg.Port())
	srv := &http.Server{Addr: addr, Handler: s.ginEngine}

	// listen first so a busy port fails fast
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}
	s.logger.Info("server listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	go func() {
		<-ctx.Done()
		if s.unsubscribeSummary != nil {
			s.unsubscribeSummary()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
