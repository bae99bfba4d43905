package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Handler returns the routed, CORS-wrapped handler for app.
func (app *Application) Handler() http.Handler {
	return app.BuildRoutes(http.NewServeMux())
}

// Serve runs the HTTP server until SIGINT or SIGTERM. Each onShutdown hook
// runs after the server has drained.
func (app *Application) Serve(onShutdown ...func()) error {
	srv := &http.Server{
		Addr:         app.Config.HTTPPort,
		Handler:      app.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	shutdownErr := make(chan error, 1)

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		s := <-shutdown
		log.Printf("shutting down server with signal %v", s)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			shutdownErr <- err
			return
		}

		log.Println("completing background tasks before shutting down...")
		for _, hook := range onShutdown {
			hook()
		}
		shutdownErr <- nil
	}()

	log.Printf("starting server on port %v", app.Config.HTTPPort)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	log.Printf("stopped server %v", app.Config.HTTPPort)
	return nil
}
