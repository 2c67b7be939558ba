package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/structguard/structguard"
	sghttp "github.com/structguard/structguard/http"
	sgslog "github.com/structguard/structguard/slog"
	"golang.org/x/time/rate"
)

// Run executes the serve command. It blocks until the server stops.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	logger := slog.New(slog.NewTextHandler(deps.Stderr, nil))

	// Wrap each adapter so every extract and inject is logged.
	logged := structguard.NewAdapterRegistry()
	for _, format := range deps.Adapters.Formats() {
		adapter, err := deps.Adapters.Get(format)
		if err != nil {
			return err
		}
		logged.Register(sgslog.NewLoggingAdapter(adapter, logger))
	}

	srv := sghttp.NewServer(logged, deps.Policies, logger, sghttp.Config{
		MaxContentBytes: c.MaxBytes,
		RateLimit:       rate.Limit(c.Rate),
	})

	addr := ResolveAddr(c.Addr)
	fmt.Fprintf(deps.Stdout, "structguard %s listening on %s\n", structguard.Version, addr)
	return srv.Run(addr)
}

// ResolveAddr picks the listen address: an explicit --addr wins, then
// :$PORT, then :8080.
func ResolveAddr(addr string) string {
	if addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
