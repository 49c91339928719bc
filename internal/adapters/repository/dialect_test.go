package repository

import (
	"strings"
	"testing"

	"github.com/okian/floradex/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDialect(t *testing.T) {
	Convey("Given the supported dialects", t, func() {
		Convey("When building a species list query", func() {
			f := Filter{Genus: "Rosa", Species: "canina"}

			sq, sargs := SQLite.listQuery(f)
			pq, pargs := Postgres.listQuery(f)

			Convey("Then placeholders should follow each backend", func() {
				So(sq, ShouldEqual, "SELECT flower_id, genus, species, petal_count, color FROM Flowers WHERE genus = ? AND species = ? ORDER BY flower_id")
				So(pq, ShouldContainSubstring, "WHERE genus = $1 AND species = $2")
				So(sargs, ShouldResemble, []any{"Rosa", "canina"})
				So(pargs, ShouldResemble, sargs)
			})
		})

		Convey("When the filter is empty", func() {
			q, args := SQLite.listQuery(Filter{})

			Convey("Then no WHERE clause should be rendered", func() {
				So(strings.Contains(q, "WHERE"), ShouldBeFalse)
				So(args, ShouldBeNil)
			})
		})

		Convey("When building an aggregate query", func() {
			q, _ := Postgres.aggregateQuery(Filter{Genus: "Rosa", Species: "canina"}, model.AggregateAvg)

			So(q, ShouldStartWith, "SELECT CAST(AVG(petal_count) AS DOUBLE PRECISION) FROM Flowers")
		})

		Convey("When building inserts", func() {
			So(SQLite.insertQuery(), ShouldNotContainSubstring, "RETURNING")
			So(Postgres.insertQuery(), ShouldEndWith, "VALUES ($1, $2, $3, $4) RETURNING flower_id")
		})

		Convey("When naming operations", func() {
			So(Filter{}.operation("list"), ShouldEqual, "list_all")
			So(Filter{Genus: "Rosa"}.operation("list"), ShouldEqual, "list_genus")
			So(Filter{Genus: "Rosa", Species: "canina"}.operation("list"), ShouldEqual, "list_species")
		})

		Convey("When looking up schema files", func() {
			ddl, err := Schema(Postgres)
			So(err, ShouldBeNil)
			So(ddl, ShouldContainSubstring, "GENERATED BY DEFAULT AS IDENTITY")
			So(len(splitStatements(ddl)), ShouldEqual, 2)
		})
	})
}
