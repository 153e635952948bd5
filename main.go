package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zachkp/zach-dev/internal/config"
	"github.com/Zachkp/zach-dev/internal/logger"
	"github.com/Zachkp/zach-dev/internal/mockapi"
	"github.com/Zachkp/zach-dev/internal/sender"
	"github.com/Zachkp/zach-dev/internal/site"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

// CLI is the top-level command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Serve   ServeCmd         `cmd:"" default:"1" help:"Serve the portfolio site."`
	Contact ContactCmd       `cmd:"" help:"Send a message from the terminal."`
	MockAPI MockAPICmd       `cmd:"" name:"mock-api" help:"Run a local stand-in for the contact API."`
}

// ServeCmd runs the website.
type ServeCmd struct {
	Port int `help:"Port to listen on. Overrides PORT."`
}

// MockAPICmd runs the contact API stub.
type MockAPICmd struct {
	Port int `help:"Port to listen on. Overrides MOCK_API_PORT."`
}

// bootstrap loads configuration and builds the logger for command. A nil out
// keeps the environment's default log destination.
func bootstrap(command string, out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config load: %w", err)
	}
	log, err := logger.New(logger.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Command: command,
		Version: version,
		Out:     out,
	})
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger init: %w", err)
	}
	return cfg, log, nil
}

func newSender(cfg *config.Config, log zerolog.Logger) (*sender.Client, error) {
	return sender.New(sender.Config{
		BaseURL: cfg.Contact.BaseURL,
		Timeout: cfg.Contact.Timeout,
	}, logger.Component(log, "sender"))
}

func (s *ServeCmd) Run() error {
	cfg, log, err := bootstrap("serve", nil)
	if err != nil {
		return err
	}
	if !logger.IsDevelopment(cfg.App.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := newSender(cfg, log)
	if err != nil {
		return err
	}
	content, err := site.LoadContent(cfg.Site.ContentPath)
	if err != nil {
		return err
	}
	router, err := site.NewRouter(site.Dependencies{
		Content:       content,
		Submitter:     client,
		Logger:        logger.Component(log, "site"),
		FeedbackDelay: cfg.Contact.FeedbackDelay,
	})
	if err != nil {
		return err
	}

	port := cfg.App.Port
	if s.Port > 0 {
		port = s.Port
	}
	log.Info().Int("port", port).Str("contact_api", client.Endpoint()).Msg("starting site")
	return listen(port, router, log)
}

func (m *MockAPICmd) Run() error {
	cfg, log, err := bootstrap("mock-api", nil)
	if err != nil {
		return err
	}
	if !logger.IsDevelopment(cfg.App.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := mockapi.NewRouter(mockapi.Config{RatePerMinute: cfg.MockAPI.RatePerMinute}, logger.Component(log, "mockapi"))

	port := cfg.MockAPI.Port
	if m.Port > 0 {
		port = m.Port
	}
	log.Info().Int("port", port).Str("base_path", mockapi.BasePath).Msg("starting contact API stub")
	return listen(port, router, log)
}

// listen serves h until SIGINT or SIGTERM, then drains in-flight requests.
func listen(port int, h http.Handler, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("portfolio"),
		kong.Description("Portfolio site, contact form and contact API stub."),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
