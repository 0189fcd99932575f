// Package main VPN Dashboard API
//
// @title           VPN Dashboard API
// @version         1.0
// @description     Административная панель VPN: пул ссылок, пользователи, выдача ссылок и рассылка через Telegram-бота
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name vpn_session
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/vpn-dashboard/internal/app/dashboard"
	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting vpn-dashboard", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := dashboard.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("vpn-dashboard stopped gracefully")
}
