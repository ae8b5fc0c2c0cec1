package server

import (
	"context"
	"fmt"
	"time"

	"lunchlog/config"
	"lunchlog/internal/app"
	"lunchlog/internal/handlers"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
)

// Receipt payloads are small JSON documents.
const maxRequestBody = 1 << 20

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func fiberConfig(cfg config.Config) fiber.Config {
	fc := fiber.Config{
		ServerHeader:            "lunchlog/" + cfg.GeneralVersion,
		AppName:                 "lunchlog_server",
		BodyLimit:               maxRequestBody,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             90 * time.Second,
		DisableStartupMessage:   true,
	}

	if cfg.IsDevelopment() {
		fc.DisableStartupMessage = false
		fc.EnablePrintRoutes = true
	}
	return fc
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")

	server := fiber.New(fiberConfig(app.Config))

	server.Use(recover.New(recover.Config{EnableStackTrace: app.Config.IsDevelopment()}))
	server.Use(cors.New(cors.Config{
		AllowOrigins:  app.Config.CorsAllowOrigins,
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Trace-ID",
		ExposeHeaders: "X-Trace-ID",
		MaxAge:        300,
	}))
	server.Use(fiberLogs.New(fiberLogs.Config{
		Format: "${time} ${status} ${method} ${path} ${latency} trace=${respHeader:X-Trace-ID}\n",
	}))
	server.Use(compress.New())

	// JSON API only; nothing is framed or rendered.
	server.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "no-referrer",
		CrossOriginResourcePolicy: "same-origin",
		XPermittedCrossDomain:     "none",
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none'",
	}))

	if err := handlers.Router(server, app); err != nil {
		return nil, log.Err("failed to register routes", err)
	}

	log.Info("Server initialized", "environment", app.Config.Environment)
	return &AppServer{FiberApp: server, log: log}, nil
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port <= 0 {
		return log.Error("invalid port", "port", port)
	}

	log.Info("Listening", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *AppServer) Shutdown(ctx context.Context) error {
	return s.FiberApp.ShutdownWithContext(ctx)
}
