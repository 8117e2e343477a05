package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/quintans/eventsourcing/log"
	"github.com/quintans/toolkit/latch"
	"github.com/sirupsen/logrus"

	"github.com/Shivam1116/banking-app/internal/domain/app"
	"github.com/Shivam1116/banking-app/internal/infra/controller"
	"github.com/Shivam1116/banking-app/internal/infra/gateway/memory"
)

const maxBodySize = "16K"

type Config struct {
	ApiPort         int           `env:"API_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	Overwrite       bool          `env:"ACCOUNT_OVERWRITE" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Setup(cfg Config) {
	logger := newLogger(logrus.StandardLogger(), cfg.LogLevel)

	// Repository
	accRepo := memory.NewAccountRepository(memory.WithOverwrite(cfg.Overwrite))

	// Usecases
	accUC := app.NewAccountService(accRepo)

	// controllers
	rest := controller.NewRestController(logger, accUC)

	ltx := latch.NewCountDownLatch()
	ctx, cancel := context.WithCancel(context.Background())

	ltx.Add(1)
	go func() {
		startRestServer(ctx, logger, rest, cfg)
		ltx.Done()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()
	ltx.WaitWithTimeout(cfg.ShutdownTimeout + time.Second)
}

func newLogger(l *logrus.Logger, level string) log.Logger {
	logger := log.NewLogrus(l)
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		logger.Warnf("invalid LOG_LEVEL '%s', falling back to info", level)
		return logger
	}
	l.SetLevel(ll)
	return logger
}

func newEcho(c controller.RestController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))

	c.Register(e)
	return e
}

func startRestServer(ctx context.Context, logger log.Logger, c controller.RestController, cfg Config) {
	e := newEcho(c)

	go func() {
		<-ctx.Done()
		c, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(c); err != nil {
			logger.WithError(err).Error("failing shutting down the server")
		}
	}()

	address := fmt.Sprintf(":%d", cfg.ApiPort)
	logger.Infof("accounts server listening on %s", address)
	if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("%+v", err)
	}
	logger.Info("shutting down the server")
}
