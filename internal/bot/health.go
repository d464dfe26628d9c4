package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/m3rciful/statusbot/internal/logger"
)

const healthBody = "🤖 Бот управления статусами работает!"

// ServeHealth runs the liveness listener hosting platforms probe. It blocks
// until the context is cancelled.
func ServeHealth(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, healthBody)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("health listener started",
			slog.String("event", "health.listen"),
			slog.Int("port", port),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
