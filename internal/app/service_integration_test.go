package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/floradex/internal/adapters/repository"
	service "github.com/okian/floradex/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func newSQLiteService(t *testing.T) *service.Service {
	t.Helper()
	ctx := context.Background()
	store, err := repository.OpenSQLite(ctx, filepath.Join(t.TempDir(), "flowers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.ApplySchema(ctx, store.DB(), repository.SQLite); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	svc := service.New(service.WithStore(store), service.WithDriverName("sqlite"))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by SQLite", t, func() {
		svc := newSQLiteService(t)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When the store is empty", func() {
			_, err := svc.ListAll(ctx)

			Convey("Then listing should fail with not found", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When observations are inserted", func() {
			for _, body := range []string{
				`{"binomialNomenclature":"Rosa canina","petalCount":5,"color":"pink"}`,
				`{"binomialNomenclature":"Rosa canina","petalCount":7,"color":"white"}`,
				`{"binomialNomenclature":"Rosa rubiginosa","petalCount":5,"color":"pink"}`,
				`{"binomialNomenclature":"Bellis perennis","petalCount":21,"color":"white"}`,
			} {
				_, err := put(ctx, svc, body)
				So(err, ShouldBeNil)
			}

			Convey("Then ids should be sequential from 1", func() {
				rows, err := svc.ListAll(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 4)
				for i, r := range rows {
					So(r.ID, ShouldEqual, i+1)
				}
			})

			Convey("Then genus listing should return only that genus", func() {
				rows, err := svc.ListByGenus(ctx, "Rosa")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				for _, r := range rows {
					So(r.Genus, ShouldEqual, "Rosa")
				}

				_, err = svc.ListByGenus(ctx, "Tulipa")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then species listing should match both names", func() {
				rows, err := svc.ListBySpecies(ctx, "Rosa", "canina")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)

				_, err = svc.ListBySpecies(ctx, "Rosa", "nonexistent")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then aggregates should be scalar and null when empty", func() {
				avg, err := svc.Aggregate(ctx, "Rosa", "canina", "avg")
				So(err, ShouldBeNil)
				So(*avg, ShouldEqual, 6.0)

				lo, err := svc.Aggregate(ctx, "Rosa", "canina", "min")
				So(err, ShouldBeNil)
				So(*lo, ShouldEqual, 5.0)

				none, err := svc.Aggregate(ctx, "Rosa", "nonexistent", "max")
				So(err, ShouldBeNil)
				So(none, ShouldBeNil)
			})

			Convey("Then the next insert should get max id plus one", func() {
				_, err := put(ctx, svc, `{"binomialNomenclature":"Tulipa gesneriana","petalCount":6,"color":"red"}`)
				So(err, ShouldBeNil)

				rows, err := svc.ListByGenus(ctx, "Tulipa")
				So(err, ShouldBeNil)
				So(rows[0].ID, ShouldEqual, 5)
				So(svc.GetStats().Observations, ShouldEqual, 5)
			})
		})

		Convey("When many clients insert concurrently", func() {
			const writers = 25
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					body := fmt.Sprintf(`{"binomialNomenclature":"Rosa canina","petalCount":%d,"color":"pink"}`, i)
					_, _ = svc.Insert(ctx, []byte(body))
				}(i)
			}
			wg.Wait()

			Convey("Then ids should be unique and dense", func() {
				rows, err := svc.ListAll(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, writers)
				for i, r := range rows {
					So(r.ID, ShouldEqual, i+1)
				}
			})
		})
	})
}
