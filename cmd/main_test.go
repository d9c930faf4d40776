package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"testing"

	"github.com/grantwire/gavel/internal/adapters/http/api"
	app "github.com/grantwire/gavel/internal/app"
	"github.com/grantwire/gavel/internal/config"
	"github.com/grantwire/gavel/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("PORT", "8080")
			_ = os.Setenv("DB_HOST", "db.test")
			defer func() {
				_ = os.Unsetenv("PORT")
				_ = os.Unsetenv("DB_HOST")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr(), convey.ShouldEqual, ":8080")
				convey.So(cfg.DBHost, convey.ShouldEqual, "db.test")
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			_ = logger.Init()
			svc := app.New()
			mux := http.NewServeMux()
			apiServer := api.NewServer(svc, logger.Get())
			apiServer.Register(context.Background(), mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then the server should be configured", func() {
				convey.So(srv.Handler, convey.ShouldNotBeNil)
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
			})
		})

		convey.Convey("When the listener cannot bind its port", func() {
			_ = logger.Init()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = ln.Close() }()

			ctx, stop := context.WithCancel(context.Background())
			defer stop()

			srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NewServeMux()}
			serveHTTP(ctx, srv, stop, logger.Get())

			convey.Convey("Then the root context should be cancelled", func() {
				select {
				case <-ctx.Done():
				default:
					convey.So("context still open", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
