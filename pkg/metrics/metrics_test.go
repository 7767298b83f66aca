package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then metrics are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.weightedRequests.Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "unirank_api_weighted_requests_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("rankings"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.pageSize.Observe(10)

			Convey("Then they are applied to the registered metrics", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})

				expected := `
# HELP test_rankings_page_size Requested page size of rankings queries
# TYPE test_rankings_page_size histogram
test_rankings_page_size_bucket{env="test",le="1"} 0
test_rankings_page_size_bucket{env="test",le="5"} 0
test_rankings_page_size_bucket{env="test",le="10"} 1
test_rankings_page_size_bucket{env="test",le="20"} 1
test_rankings_page_size_bucket{env="test",le="50"} 1
test_rankings_page_size_bucket{env="test",le="100"} 1
test_rankings_page_size_bucket{env="test",le="+Inf"} 1
test_rankings_page_size_sum{env="test"} 10
test_rankings_page_size_count{env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_rankings_page_size")
				So(err, ShouldBeNil)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "unirank")
				So(manager.subsystem, ShouldEqual, "api")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording rankings metrics", func() {
			before := testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("year"))
			RecordValidationFailure("year")
			RecordValidationFailure("year")

			weightedBefore := testutil.ToFloat64(globalManager.weightedRequests)
			RecordWeightedRequest()

			queriesBefore := testutil.ToFloat64(globalManager.rankingsQueries.WithLabelValues("composite"))
			RecordRankingsQuery("composite")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("year")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.weightedRequests), ShouldEqual, weightedBefore+1)
				So(testutil.ToFloat64(globalManager.rankingsQueries.WithLabelValues("composite")), ShouldEqual, queriesBefore+1)
			})

			Convey("And histograms accept observations", func() {
				So(func() {
					ObservePageSize(10)
					ObservePageSize(100)
					ObserveResultTotal(0)
					ObserveResultTotal(1500)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			before := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/api/rankings", "GET", "400"))
			RecordHTTPRequest("/api/rankings", "GET", "400")
			RecordErrorByEndpoint("/api/rankings", "GET", "validation")

			Convey("Then it should record HTTP requests", func() {
				So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/api/rankings", "GET", "400")), ShouldEqual, before+1)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/health", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/api/rankings", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			before := testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("count"))
			RecordStoreError("count")
			ObserveStoreOperation("find", 2.5)

			Convey("Then the store error counter moves", func() {
				So(testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("count")), ShouldEqual, before+1)
				So(testutil.CollectAndCount(globalManager.storeLatency), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordWeightedRequest()
		families, err := GetRegistry().Gather()

		Convey("Then it exposes service metrics only", func() {
			So(err, ShouldBeNil)
			So(families, ShouldNotBeEmpty)
			for _, f := range families {
				So(f.GetName(), ShouldStartWith, "unirank_")
			}
		})
	})
}
