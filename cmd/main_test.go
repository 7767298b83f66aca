package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/unirank/internal/adapters/repository"
	app "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/config"
	"github.com/okian/unirank/pkg/logger"
)

const seedFixture = "testdata/universities.json"

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("UNIRANK_ADDR", ":8080")
	t.Setenv("UNIRANK_SERVICE_NAME", "rankings-eu")
	t.Setenv("UNIRANK_ROUTE_PREFIX", "/v1")
	t.Setenv("UNIRANK_SEED_FILE", seedFixture)
	t.Setenv("UNIRANK_CORS_ORIGINS", "https://a.example, https://b.example")

	convey.Convey("Given UNIRANK_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.ServiceName, convey.ShouldEqual, "rankings-eu")
			convey.So(cfg.RoutePrefix, convey.ShouldEqual, "/v1")
			convey.So(cfg.SeedFile, convey.ShouldEqual, seedFixture)
			convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
		})
	})
}

func TestOpenMemory(t *testing.T) {
	convey.Convey("Given a memory store configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When a seed file is configured", func() {
			cfg.SeedFile = seedFixture
			store, closeStore, err := openStore(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = closeStore() }()

			convey.Convey("Then every seed record is loaded", func() {
				n, err := store.Count(ctx, repository.Filter{})
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When no seed file is configured", func() {
			store, closeStore, err := openStore(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = closeStore() }()

			convey.Convey("Then the store starts empty", func() {
				n, err := store.Count(ctx, repository.Filter{})
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the seed file is missing", func() {
			cfg.SeedFile = filepath.Join(t.TempDir(), "missing.json")
			_, _, err := openStore(ctx, cfg, logger.Nop())

			convey.Convey("Then opening fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.SeedFile = seedFixture

		store, closeStore, err := openStore(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = closeStore() }()

		svc := app.New(app.WithStore(store), app.WithLogger(logger.Nop()))
		h := newHandler(ctx, cfg, svc, logger.Nop())

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return rec
		}

		convey.Convey("Rankings are served under the configured prefix", func() {
			rec := get("/api/rankings?year=2025")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

			var body struct {
				Data       []map[string]any `json:"data"`
				Pagination struct {
					TotalItems int `json:"totalItems"`
				} `json:"pagination"`
			}
			convey.So(json.Unmarshal(rec.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(body.Pagination.TotalItems, convey.ShouldEqual, 3)
			convey.So(body.Data[0]["Name"], convey.ShouldEqual, "Ain Shams University")
		})

		convey.Convey("Health and metrics sit outside the prefix", func() {
			convey.So(get("/health").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("The OpenAPI document points at the prefix", func() {
			rec := get("/openapi.yaml")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(strings.Contains(rec.Body.String(), "url: /api"), convey.ShouldBeTrue)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}
