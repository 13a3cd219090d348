package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pointdeck/pointdeck/internal/config"
	"github.com/pointdeck/pointdeck/internal/poker"
	"github.com/pointdeck/pointdeck/internal/ws"
	staticserver "github.com/pointdeck/pointdeck/static"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides POINTDECK_PORT)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Pointdeck - Real-time planning poker

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or POINTDECK_PORT)

Environment Variables:
  POINTDECK_PORT            Port to listen on (default: 8080)
  POINTDECK_MODE            Gin mode: "release" or "debug" (default: release)
  POINTDECK_LOG_LEVEL       Log level (default: info)
  POINTDECK_EXPORT_ENABLED  Append revealed rounds to a results file (default: false)
  POINTDECK_EXPORT_FILE     Results file path (default: ./pointdeck-results.txt)

A config.yaml in the working directory or ./config is merged with the
environment. Visit http://localhost:8080 after starting the server.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Pointdeck %s\n", version)
		return
	}

	// Local .env for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Room registry + socket transport
	reg := poker.NewRegistry()
	sock := ws.New(reg, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Read-only room lookups for clients arriving via a shared link.
	r.GET("/api/rooms/:id", func(c *gin.Context) {
		state, ok := reg.State(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
			return
		}
		c.JSON(http.StatusOK, state)
	})
	r.GET("/api/rooms/:id/exists", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exists": reg.RoomExists(c.Param("id"))})
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("port", cfg.Port).Msg("pointdeck listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
