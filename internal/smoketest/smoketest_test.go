package smoketest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/floradex/internal/adapters/http/api"
	repository "github.com/okian/floradex/internal/adapters/repository"
	service "github.com/okian/floradex/internal/app"
	"github.com/okian/floradex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func ptr(v float64) *float64 { return &v }

func TestGenerator(t *testing.T) {
	Convey("Given a run id", t, func() {
		runID := NewRunID()
		So(len(runID), ShouldEqual, runIDLength)

		Convey("When generating submissions", func() {
			stats := &Stats{}
			subs, err := generateSubmissions(context.Background(), 30, runID, stats)

			Convey("Then every one should be a valid two-word name tagged with the run", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 30)
				for _, s := range subs {
					tokens := strings.Fields(s.BinomialNomenclature)
					So(len(tokens), ShouldEqual, 2)
					So(tokens[1], ShouldEndWith, "-"+runID)
					So(s.PetalCount, ShouldBeGreaterThanOrEqualTo, 0)
					So(s.Color, ShouldNotBeEmpty)
				}
				So(len(groupBySpecies(subs)), ShouldEqual, len(catalog))
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := generateSubmissions(ctx, 10, runID, &Stats{})

			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given submitted petal counts", t, func() {
		k := speciesKey{Genus: "Rosa", Species: "canina-x"}
		petals := []int64{5, 7, 6}

		Convey("When computing expected aggregates", func() {
			agg := expectedAggregates(petals)

			So(*agg.Avg, ShouldEqual, 6.0)
			So(*agg.Min, ShouldEqual, 5.0)
			So(*agg.Max, ShouldEqual, 7.0)
			So(expectedAggregates(nil).Avg, ShouldBeNil)
		})

		Convey("When the listing matches in any order", func() {
			records := []Record{
				{ID: 3, Genus: "Rosa", Species: "canina-x", PetalCount: 7},
				{ID: 4, Genus: "Rosa", Species: "canina-x", PetalCount: 5},
				{ID: 9, Genus: "Rosa", Species: "canina-x", PetalCount: 6},
			}
			So(verifyRecords(k, petals, records), ShouldBeNil)
		})

		Convey("When the listing is wrong", func() {
			short := []Record{{ID: 1, Genus: "Rosa", Species: "canina-x", PetalCount: 5}}
			unordered := []Record{
				{ID: 2, Genus: "Rosa", Species: "canina-x", PetalCount: 5},
				{ID: 1, Genus: "Rosa", Species: "canina-x", PetalCount: 7},
				{ID: 3, Genus: "Rosa", Species: "canina-x", PetalCount: 6},
			}
			wrongPetals := []Record{
				{ID: 1, Genus: "Rosa", Species: "canina-x", PetalCount: 5},
				{ID: 2, Genus: "Rosa", Species: "canina-x", PetalCount: 5},
				{ID: 3, Genus: "Rosa", Species: "canina-x", PetalCount: 6},
			}

			Convey("Then each should be a mismatch", func() {
				for _, records := range [][]Record{short, unordered, wrongPetals} {
					So(errors.Is(verifyRecords(k, petals, records), ErrMismatch), ShouldBeTrue)
				}
			})
		})

		Convey("When comparing aggregates", func() {
			So(compareAggregate("avg", ptr(6), ptr(6)), ShouldBeNil)
			So(compareAggregate("max", nil, nil), ShouldBeNil)
			So(errors.Is(compareAggregate("max", nil, ptr(7)), ErrMismatch), ShouldBeTrue)
			So(errors.Is(compareAggregate("min", ptr(4), ptr(5)), ErrMismatch), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running floradex server", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithStore(repository.NewMemoryStore()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc).Register(mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When running the smoke test", func() {
			out := filepath.Join(t.TempDir(), "out", "submitted.json")
			err := Run(ctx, &Config{
				BaseURL:         srv.URL,
				NumObservations: 40,
				Workers:         4,
				Timeout:         5 * time.Second,
				OutputFile:      out,
			})

			Convey("Then it should pass and save the submissions", func() {
				So(err, ShouldBeNil)
				_, statErr := os.Stat(out)
				So(statErr, ShouldBeNil)

				stats := svc.GetStats()
				So(stats.Observations, ShouldEqual, 40)
			})
		})

		Convey("When the service is unreachable", func() {
			err := Run(ctx, &Config{
				BaseURL:         "http://127.0.0.1:1",
				NumObservations: 1,
				Workers:         1,
				Timeout:         time.Second,
				OutputFile:      "-",
			})

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check failed")
		})
	})
}
