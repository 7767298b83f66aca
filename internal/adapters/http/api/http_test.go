package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/unirank/internal/adapters/http/api"
	"github.com/okian/unirank/internal/adapters/repository"
	app "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/university"
	"github.com/okian/unirank/internal/domain/validation"
	"github.com/okian/unirank/pkg/logger"
)

// fakeDeps records what the handlers pass in and returns canned results.
type fakeDeps struct {
	page      *app.RankingsPage
	rankErr   error
	records   []university.Record
	listErr   error
	pingErr   error
	lastQuery app.RankingsQuery
	lastReqID string
}

func (f *fakeDeps) Rankings(ctx context.Context, q app.RankingsQuery) (*app.RankingsPage, error) {
	f.lastQuery = q
	f.lastReqID = logger.RequestIDFromContext(ctx)
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	return f.page, nil
}

func (f *fakeDeps) Universities(context.Context) ([]university.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeDeps) Ping(context.Context) error { return f.pingErr }

func newRouter(deps api.Dependencies, prefix string, opts ...api.ServerOption) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps, opts...).Register(context.Background(), r, prefix)
	return r
}

func do(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestRankingsRoute(t *testing.T) {
	Convey("Given an API server under /api", t, func() {
		deps := &fakeDeps{page: &app.RankingsPage{
			Data:       []university.Record{{"Name": "University A", "Overall SCORE": 95.0}},
			Pagination: app.NewPagination(1, 1, 10),
		}}
		h := newRouter(deps, "/api")

		Convey("When requesting rankings with every parameter", func() {
			target := "/api/rankings?" + url.Values{
				"year":      {"2025"},
				"region":    {"Asia"},
				"subject":   {"AR"},
				"page":      {"2"},
				"limit":     {"5"},
				"weights":   {`{"AR":100}`},
				"weight_ER": {"10"},
				"other":     {"x"},
			}.Encode()
			w := do(h, http.MethodGet, target, nil)

			Convey("Then the query is handed to the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldResemble, app.RankingsQuery{
					Year: "2025", Region: "Asia", Subject: "AR", Page: "2", Limit: "5",
					Weights:      `{"AR":100}`,
					WeightParams: map[string]string{"weight_ER": "10"},
				})
			})

			Convey("And the response has data, pagination and null filters", func() {
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				body := decode(w)
				So(body["data"], ShouldHaveLength, 1)
				So(body["pagination"], ShouldResemble, map[string]any{
					"currentPage": 1.0, "totalPages": 1.0, "totalItems": 1.0,
					"itemsPerPage": 10.0, "hasNextPage": false, "hasPrevPage": false,
				})
				So(body["filters"], ShouldResemble, map[string]any{
					"year": nil, "region": nil, "subject": nil, "weights": nil,
				})
			})
		})

		Convey("When the service rejects the query", func() {
			_, err := validation.ValidateYear("1999")
			deps.rankErr = err
			w := do(h, http.MethodGet, "/api/rankings?year=1999", nil)

			Convey("Then a 400 validation envelope is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w), ShouldResemble, map[string]any{
					"error":   "Validation failed",
					"message": "Invalid year. Must be one of: 2025, 2026",
				})
			})
		})

		Convey("When the store fails", func() {
			deps.rankErr = &app.FetchError{Op: "find", Err: errors.New("connection refused")}
			w := do(h, http.MethodGet, "/api/rankings", nil)

			Convey("Then a 500 fetch envelope is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w), ShouldResemble, map[string]any{
					"error":   "Failed to fetch rankings",
					"message": "connection refused",
				})
			})
		})

		Convey("When posting to the rankings route", func() {
			w := do(h, http.MethodPost, "/api/rankings", nil)

			Convey("Then it is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When requesting an unknown route", func() {
			w := do(h, http.MethodGet, "/api/nope", nil)

			Convey("Then a JSON 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["message"], ShouldEqual, "Cannot GET /api/nope")
			})
		})
	})
}

func TestUniversitiesRoute(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &fakeDeps{records: []university.Record{{"Name": "A"}, {"Name": "B"}}}
		h := newRouter(deps, "/api")

		Convey("When listing at the prefix root and at /universities", func() {
			for _, target := range []string{"/api", "/api/", "/api/universities"} {
				w := do(h, http.MethodGet, target, nil)
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
			}
		})

		Convey("When the store fails", func() {
			deps.listErr = &app.FetchError{Op: "find", Err: errors.New("timeout")}
			w := do(h, http.MethodGet, "/api/universities", nil)

			Convey("Then a 500 envelope is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "Failed to fetch universities")
			})
		})
	})
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &fakeDeps{page: &app.RankingsPage{Data: []university.Record{}}}
		h := newRouter(deps, "/api")

		Convey("When the store is reachable", func() {
			w := do(h, http.MethodGet, "/health", nil)

			Convey("Then health reports OK", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w), ShouldResemble, map[string]any{"status": "OK", "message": "Server is running"})
			})
		})

		Convey("When the store is down", func() {
			deps.pingErr = errors.New("dial tcp: connection refused")
			w := do(h, http.MethodGet, "/health", nil)

			Convey("Then health reports DEGRADED", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decode(w)["status"], ShouldEqual, "DEGRADED")
			})
		})

		Convey("When scraping metrics after a request", func() {
			do(h, http.MethodGet, "/api/rankings", nil)
			w := do(h, http.MethodGet, "/metrics", nil)

			Convey("Then the service metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "unirank_api_http_requests_total")
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &fakeDeps{page: &app.RankingsPage{Data: []university.Record{}}}
		h := newRouter(deps, "/api")

		Convey("When the client sends a request ID", func() {
			w := do(h, http.MethodGet, "/api/rankings", http.Header{api.RequestIDHeader: {"req-123"}})

			Convey("Then it is echoed and reaches the service context", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-123")
				So(deps.lastReqID, ShouldEqual, "req-123")
			})
		})

		Convey("When the client sends none", func() {
			w := do(h, http.MethodGet, "/api/rankings", nil)

			Convey("Then one is generated", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
				So(deps.lastReqID, ShouldEqual, w.Header().Get(api.RequestIDHeader))
			})
		})
	})
}

func TestCORSMiddleware(t *testing.T) {
	Convey("Given the default CORS policy", t, func() {
		h := newRouter(&fakeDeps{records: []university.Record{}}, "/api")

		Convey("Any origin is allowed", func() {
			w := do(h, http.MethodGet, "/api/universities", http.Header{"Origin": {"http://localhost:5173"}})
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})

		Convey("Preflight requests are answered directly", func() {
			w := do(h, http.MethodOptions, "/api/rankings", http.Header{"Origin": {"http://localhost:5173"}})
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "GET")
		})
	})

	Convey("Given an explicit origin list", t, func() {
		h := newRouter(&fakeDeps{records: []university.Record{}}, "/api", api.WithCORSOrigins("https://rankings.example.org"))

		Convey("Listed origins are echoed", func() {
			w := do(h, http.MethodGet, "/api/universities", http.Header{"Origin": {"https://rankings.example.org"}})
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://rankings.example.org")
		})

		Convey("Other origins are refused", func() {
			w := do(h, http.MethodGet, "/api/universities", http.Header{"Origin": {"https://evil.example.com"}})
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("Requests without an origin pass", func() {
			w := do(h, http.MethodGet, "/api/universities", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRoutePrefix(t *testing.T) {
	Convey("Given different route prefixes", t, func() {
		deps := &fakeDeps{page: &app.RankingsPage{Data: []university.Record{}}}

		So(api.NormalizePrefix(""), ShouldEqual, "")
		So(api.NormalizePrefix("/"), ShouldEqual, "")
		So(api.NormalizePrefix("v1/"), ShouldEqual, "/v1")
		So(api.NormalizePrefix(" /api "), ShouldEqual, "/api")

		Convey("An empty prefix mounts rankings at the root", func() {
			h := newRouter(deps, "")
			So(do(h, http.MethodGet, "/rankings", nil).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/health", nil).Code, ShouldEqual, http.StatusOK)
		})

		Convey("A custom prefix moves rankings but not health", func() {
			h := newRouter(deps, "v1/")
			So(do(h, http.MethodGet, "/v1/rankings", nil).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/api/rankings", nil).Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/health", nil).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRankingsEndToEnd(t *testing.T) {
	Convey("Given the real service over a memory store", t, func() {
		store := repository.NewMemoryStore(repository.WithRecords(
			university.Record{"Name": "Lower", "Region": "Asia", "AR SCORE": 80.0, "ER SCORE": 79.0, "Overall SCORE": 99.0},
			university.Record{"Name": "Higher", "Region": "Asia", "AR SCORE": 90.0, "ER SCORE": 78.4, "Overall SCORE": 50.0},
		))
		svc := app.New(app.WithStore(store), app.WithLogger(logger.Nop()))
		h := newRouter(svc, "/api")

		Convey("When weighting AR and ER equally", func() {
			w := do(h, http.MethodGet, "/api/rankings?weight_AR=50&weight_ER=50", nil)

			Convey("Then the higher composite comes first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				data := body["data"].([]any)
				So(data, ShouldHaveLength, 2)
				So(data[0].(map[string]any)["Name"], ShouldEqual, "Higher")
				So(data[0].(map[string]any)["Composite SCORE"], ShouldAlmostEqual, 84.2, 1e-9)
				So(body["filters"].(map[string]any)["weights"], ShouldResemble, map[string]any{"AR": 50.0, "ER": 50.0})
			})
		})

		Convey("When weights do not sum to 100", func() {
			w := do(h, http.MethodGet, "/api/rankings?weights="+url.QueryEscape(`{"AR":30,"ER":25}`), nil)

			Convey("Then the total is reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "Total weights must equal 100%. Current total: 55.00%")
			})
		})

		Convey("When nothing matches", func() {
			w := do(h, http.MethodGet, "/api/rankings?region=Oceania", nil)

			Convey("Then data is an empty array, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(w.Body.String(), `"data":[]`), ShouldBeTrue)
				So(decode(w)["filters"].(map[string]any)["region"], ShouldEqual, "Oceania")
			})
		})
	})
}
