package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/dashboard/internal/middleware"
	"github.com/questx-lab/dashboard/pkg/prometheus"
	"github.com/questx-lab/dashboard/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	server.loadConfig(ct)
	server.loadLogger()
	server.loadEndpoint()
	server.loadDatabase()
	server.loadRedis()
	server.loadCaches()
	server.loadPublisher()
	server.loadRepos()
	server.loadGuildAuth()
	server.loadDomains()
	server.loadRouter()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, sw := range s.sweepers {
		go sw.Run(ctx, cacheSweepInterval)
	}

	s.server = &http.Server{
		Addr:              s.configs.ApiServer.Address(),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("Cannot shutdown server: %v", err)
		}
	}()

	s.logger.Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	var err error
	if s.configs.ApiServer.Cert != "" && s.configs.ApiServer.Key != "" {
		err = s.server.ListenAndServeTLS(s.configs.ApiServer.Cert, s.configs.ApiServer.Key)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if s.kafkaPublisher != nil {
		if err := s.kafkaPublisher.Stop(context.Background()); err != nil {
			s.logger.Warnf("Cannot stop publisher: %v", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warnf("Cannot close redis client: %v", err)
		}
	}

	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleSetCookies())
	authRouter.After(middleware.HandleRedirect())
	{
		router.GET(authRouter, "/oauth2/login", s.authDomain.OAuth2Login)
		router.GET(authRouter, "/oauth2/callback", s.authDomain.OAuth2Callback)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
	}

	// These following APIs need a dashboard access token and a live discord session.
	onlyTokenAuthRouter := s.router.Branch()
	onlyTokenAuthRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(onlyTokenAuthRouter, "/me", s.authDomain.GetMe)

		// Guild API
		router.GET(onlyTokenAuthRouter, "/getMyGuilds", s.guildDomain.GetMyGuilds)
		router.GET(onlyTokenAuthRouter, "/getGuild", s.guildDomain.GetGuild)
		router.GET(onlyTokenAuthRouter, "/getGuildSettings", s.guildDomain.GetGuildSettings)
		router.POST(onlyTokenAuthRouter, "/updateGuildSettings", s.guildDomain.UpdateGuildSettings)
		router.POST(onlyTokenAuthRouter, "/leaveGuild", s.guildDomain.LeaveGuild)
	}

	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(healthz))
	if s.configs.Prometheus.Enabled {
		s.router.Handle(http.MethodGet, s.configs.Prometheus.Path, prometheus.NewHandler())
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	_ = router.WriteJson(w, http.StatusOK, map[string]string{"status": "ok"})
}
