package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.observationsInserted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "floradex_flowers_observations_inserted_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("garden"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"driver": "memory"}),
				WithPrometheusRegistry(registry),
			)
			manager.observationsTotal.Set(3)

			Convey("Then names and constant labels follow the options", func() {
				expected := `
# HELP test_garden_observations Number of observations currently in the store
# TYPE test_garden_observations gauge
test_garden_observations{driver="memory"} 3
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_garden_observations")
				So(err, ShouldBeNil)
			})
		})

		Convey("When passing empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "floradex")
				So(manager.subsystem, ShouldEqual, "flowers")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.registry, ShouldEqual, registry)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording observation metrics", func() {
			before := testutil.ToFloat64(globalManager.observationsInserted)
			RecordObservationInserted()
			RecordObservationInserted()
			RecordObservationRejected("key_set")
			RecordObservationRejected("invalid_field")
			UpdateObservationsTotal(42)

			Convey("Then the counters and gauges move", func() {
				So(testutil.ToFloat64(globalManager.observationsInserted), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.observationsRejected.WithLabelValues("key_set")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.observationsRejected.WithLabelValues("invalid_field")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.observationsTotal), ShouldEqual, 42)
			})
		})

		Convey("When recording aggregate queries", func() {
			RecordAggregateQuery("avg", true)
			RecordAggregateQuery("max", false)

			Convey("Then the matched label is set", func() {
				So(testutil.ToFloat64(globalManager.aggregateQueries.WithLabelValues("avg", "true")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.aggregateQueries.WithLabelValues("max", "false")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording store and HTTP metrics", func() {
			So(func() {
				RecordStoreQueryLatency("list", 1.5)
				RecordStoreError("insert")
				RecordHTTPRequest("flowers", "GET", "200")
				RecordHTTPRequestDuration("flowers", "GET", "200", 3)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("flowers", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("insert")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When scraping the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then it exposes only floradex metrics", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, mf := range families {
					So(mf.GetName(), ShouldStartWith, "floradex_flowers_")
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded from many goroutines", t, func() {
		before := testutil.ToFloat64(globalManager.observationsInserted)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordObservationInserted()
					RecordHTTPRequest("flowers", "PUT", "200")
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(globalManager.observationsInserted), ShouldEqual, before+1000)
	})
}
