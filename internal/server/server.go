// package server contains the local demo service that stands in for the weather and now-playing APIs
package server

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handler groups the routes of one demo endpoint family.
type Handler interface {
	Register(r fiber.Router) // Register mounts the handler's routes on r
}

// Options configures [New].
type Options struct {
	// WeatherKey, when set, must match the appid query parameter.
	WeatherKey string
	// MusicToken, when set, must be presented as a bearer token.
	MusicToken string
	Playlist   *Playlist
	// Now defaults to [time.Now]; tests pin it.
	Now func() time.Time
}

// Server is a fiber application serving demo data in the shape of the real upstream APIs.
type Server struct {
	app    *fiber.App
	logger *log.Logger
}

// New builds the demo server and registers every route.
func New(opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Playlist == nil {
		opts.Playlist = DefaultPlaylist()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	app := fiber.New(fiber.Config{
		AppName:               "skytunes-demo",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "skytunes-demo"})
	})

	handlers := []struct {
		prefix  string
		guard   Middleware
		handler Handler
	}{
		{"/data/2.5", RequireAppID(opts.WeatherKey), &WeatherHandler{}},
		{"/music", RequireBearer(opts.MusicToken), &TrackHandler{playlist: opts.Playlist, now: opts.Now, started: opts.Now()}},
		{"/v1", RequireBearer(opts.MusicToken), &SpotifyHandler{playlist: opts.Playlist, now: opts.Now, started: opts.Now()}},
	}
	for _, h := range handlers {
		h.handler.Register(app.Group(h.prefix, h.guard))
	}

	return &Server{app: app, logger: logger}
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("demo server listening", "addr", addr)
		errc <- s.app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down demo server")
	return s.app.ShutdownWithContext(shutdownCtx)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
