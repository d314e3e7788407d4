package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"starter_api/internal/api"
	"starter_api/internal/api/handler"
	"starter_api/internal/app/service"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"starter_api/internal/platform/cache"
	"time"
)

const shutdownTimeout = 15 * time.Second

func (a *App) serve(ctx context.Context, args []string) error {
	fs := a.flagSet("serve")
	fs.StringVar(&a.cfg.APIHost, "host", a.cfg.APIHost, "address to bind")
	fs.StringVar(&a.cfg.APIPort, "port", a.cfg.APIPort, "port to listen on")
	fs.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := a.logger()

	store, closeStore, err := a.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore()

	contentCache, err := cache.Connect(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer contentCache.Close()

	tokens, err := security.NewTokenManager([]byte(a.cfg.JWTSecret), a.cfg.JWTAlgorithm, a.cfg.AccessTokenTTL, a.cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Services{
		Tokens:   tokens,
		Auth:     service.NewAuthService(store, tokens),
		Users:    service.NewUserService(store, contentCache, log),
		Contents: service.NewContentService(store, contentCache, model.SlugStrategy(a.cfg.SlugStrategy), log),
		Health: map[string]handler.Pinger{
			"database": store,
			"cache":    contentCache,
		},
	}, log)

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ln := a.listener
	if ln == nil {
		ln, err = net.Listen("tcp", server.Addr)
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "addr", ln.Addr().String(), "env", a.cfg.Env)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info(context.Background(), "server stopped gracefully")
	return nil
}
