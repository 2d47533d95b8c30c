package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ordermgmt/internal/infra/logger"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// New builds the echo instance with the common middleware and all routes.
func New(deps Deps, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(ecM.Recover())
	e.Use(ecM.RequestID())
	e.Use(accessLog(log))

	RegisterRoutes(e, deps)
	return e
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func accessLog(log *logger.Logger) echo.MiddlewareFunc {
	return ecM.RequestLoggerWithConfig(ecM.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v ecM.RequestLoggerValues) error {
			kv := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			switch {
			case v.Error != nil:
				log.Error("request", append(kv, "error", v.Error)...)
			case v.Status >= http.StatusInternalServerError:
				log.Error("request", kv...)
			default:
				log.Info("request", kv...)
			}
			return nil
		},
	})
}
