package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/time/rate"
)

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprintf("%v", he.Message)
		}
	}

	var uve *common.UserVisibleError
	if errors.As(err, &uve) {
		code = uve.HttpCode
		msg = uve.Message
	}

	if code >= 500 {
		c.Logger().Error(err)
	}

	if c.Response().Committed {
		return
	}
	if isAPIRequest(c) {
		if jsonErr := c.JSON(code, map[string]string{"error": msg}); jsonErr != nil {
			c.Logger().Error(jsonErr)
		}
		return
	}
	if renderErr := c.Render(code, "error", map[string]any{"Code": code, "Message": msg}); renderErr != nil {
		c.Logger().Error(renderErr)
	}
}

// NewEcho builds the server with its middleware and routes.
func NewEcho(controller *DashController, conf *config.AppConfig, serverConf config.ServerRuntimeConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HTTPErrorHandler = errorHandler
	e.HideBanner = true
	if serverConf.CertDir != "" {
		e.Pre(middleware.HTTPSRedirect())
	}
	e.Pre(middleware.RemoveTrailingSlash())
	e.Pre(echo.MiddlewareFunc(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			url := req.URL
			if serverConf.AcmeEnabled && len(conf.Hostnames) > 0 && req.Host != conf.Hostnames[0] {
				url.Host = conf.Hostnames[0]
				slog.Info("redirect to canonical hostname", "original_hostname", req.Host)
				return c.Redirect(http.StatusPermanentRedirect, url.String())
			}
			return next(c)
		}
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	var identifierExtractor middleware.Extractor
	if serverConf.BehindLoadBalancer {
		identifierExtractor = func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		}
	} else {
		identifierExtractor = func(ctx echo.Context) (string, error) {
			return ctx.Request().RemoteAddr, nil
		}
	}

	if serverConf.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: middleware.DefaultSkipper,
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(serverConf.RateLimit),
					Burst:     3 * serverConf.RateLimit,
					ExpiresIn: 3 * time.Minute,
				},
			),
			IdentifierExtractor: identifierExtractor,
			ErrorHandler: func(context echo.Context, err error) error {
				return context.String(http.StatusForbidden, "Forbidden")
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.String(http.StatusTooManyRequests, "Too Many Requests")
			},
		}))
	}

	if serverConf.GzipLevel != 0 {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level:     serverConf.GzipLevel,
			MinLength: 512,
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, ".png")
			},
		}))
	}

	if conf.TimeoutSeconds != 0 {
		e.Use(middleware.ContextTimeout(time.Duration(conf.TimeoutSeconds) * time.Second))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogLatency:   conf.LogLatency,
		HandleError:  true, // let the error handler pick the status before it is logged
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
					slog.String("remote_ip", v.RemoteIP),
					slog.String("request_id", v.RequestID),
				)
			} else {
				logger.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
					slog.String("remote_ip", v.RemoteIP),
					slog.String("request_id", v.RequestID),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
				)
			}
			return nil
		},
	}))

	staticDir, err := fs.Sub(staticFs, "static")
	if err != nil {
		return nil, err
	}
	assets, err := NewHashFS(staticDir)
	if err != nil {
		return nil, err
	}
	e.Renderer = NewTemplateRenderer(conf, assets)

	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", assets)))

	e.GET("/", controller.GetHome)
	e.GET("/dashboard", controller.GetDashboard)
	e.GET("/upload", controller.GetUpload)
	e.GET("/map", controller.GetMap)
	e.GET("/map/list", controller.GetMapList)

	api := e.Group("/api")
	api.GET("/budget", controller.GetBudget)

	bodyLimit := middleware.BodyLimit(fmt.Sprintf("%dM", conf.MaxUploadMB))
	api.POST("/upload/sheets", controller.GetSheetNames, bodyLimit)
	api.POST("/uploads", controller.PostUploads, bodyLimit)
	api.GET("/uploads/:id", controller.GetUploadSession)
	api.POST("/uploads/:id/series", controller.PostSeries)
	api.POST("/uploads/:id/chart.png", controller.PostChartPNG)
	api.PUT("/uploads/:id/charts/:index", controller.PutChart)
	api.DELETE("/uploads/:id/charts/:index", controller.DeleteChart)

	api.POST("/chart/save", controller.SaveChart)
	api.GET("/chart/all", controller.ListCharts)
	api.GET("/chart/:id", controller.GetChart)
	api.POST("/chart/convert", controller.ConvertRows)

	api.GET("/schools", controller.GetSchools)
	api.GET("/schools/search", controller.SearchSchools)
	api.GET("/schools/status", controller.GetSchoolsStatus)

	return e, nil
}

func StartServer(controller *DashController, conf *config.AppConfig, serverConf config.ServerRuntimeConfig) {
	e, err := NewEcho(controller, conf, serverConf)
	if err != nil {
		slog.Error("error while setting up server", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", serverConf.Addr, serverConf.Port)
	certDir := serverConf.CertDir

	if certDir != "" {
		if serverConf.AcmeEnabled {
			slog.Info("using TLS with ACME", "dir", certDir)
			e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(conf.Hostnames...)
			e.AutoTLSManager.Cache = autocert.DirCache(certDir)
			e.Logger.Fatal(e.StartAutoTLS(addr))
		} else {
			slog.Info("using TLS with certDir", "dir", certDir)
			e.Logger.Fatal(e.StartTLS(addr, path.Join(certDir, "fullchain.pem"), path.Join(certDir, "privkey.pem")))
		}
	} else {
		slog.Info("starting server", "addr", addr)
		e.Logger.Fatal(e.Start(addr))
	}
}
