package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down gracefully
// and closes the backends.
func (a *App) ListenAndServe(addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Router}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	a.Log.Log.Info("server started", zap.String("addr", addr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrapf(err, "listen %s", addr)
		}
		return nil
	case sig := <-stop:
		a.Log.Log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	a.Log.Log.Info("shutdown finished")
	return nil
}
