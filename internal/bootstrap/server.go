package bootstrap

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammadpnp/student-import/internal/config"
	httpecho "github.com/mohammadpnp/student-import/internal/interfaces/http/echo"
	"go.uber.org/zap"
)

func NewHTTPServer(services Services, cfg config.Config, logger *zap.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(strconv.FormatInt(cfg.ImportMaxUploadBytes, 10)))
	server.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	importHandler := httpecho.NewImportHandler(services.ImportStudents, services.Preview, logger.Named("http"))
	runHandler := httpecho.NewRunHandler(services.GetImportRun)
	httpecho.RegisterRoutes(server, importHandler, runHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return server
}
