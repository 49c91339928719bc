package repository

import (
	"strconv"
	"strings"

	"github.com/okian/floradex/internal/domain/model"
)

// Dialect captures the SQL differences between the supported backends.
type Dialect struct {
	Name string
	// DriverName is the database/sql driver registered for this dialect.
	DriverName string
	// returning selects INSERT ... RETURNING over LastInsertId.
	returning   bool
	placeholder func(n int) string
}

// Supported dialects.
var (
	SQLite = Dialect{
		Name:        "sqlite",
		DriverName:  "sqlite",
		placeholder: func(int) string { return "?" },
	}
	Postgres = Dialect{
		Name:        "postgres",
		DriverName:  "pgx",
		returning:   true,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

const selectColumns = "flower_id, genus, species, petal_count, color"

// where renders the filter as a WHERE clause with positional args.
func (d Dialect) where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Genus != "" {
		args = append(args, f.Genus)
		conds = append(conds, "genus = "+d.placeholder(len(args)))
	}
	if f.Species != "" {
		args = append(args, f.Species)
		conds = append(conds, "species = "+d.placeholder(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (d Dialect) listQuery(f Filter) (string, []any) {
	where, args := d.where(f)
	return "SELECT " + selectColumns + " FROM Flowers" + where + " ORDER BY flower_id", args
}

// aggregateQuery casts to DOUBLE PRECISION so both backends scan a float or NULL.
func (d Dialect) aggregateQuery(f Filter, kind model.AggregateKind) (string, []any) {
	where, args := d.where(f)
	return "SELECT CAST(" + kind.SQLFunc() + "(petal_count) AS DOUBLE PRECISION) FROM Flowers" + where, args
}

func (d Dialect) insertQuery() string {
	q := "INSERT INTO Flowers (genus, species, petal_count, color) VALUES (" +
		d.placeholder(1) + ", " + d.placeholder(2) + ", " + d.placeholder(3) + ", " + d.placeholder(4) + ")"
	if d.returning {
		q += " RETURNING flower_id"
	}
	return q
}

func (d Dialect) countQuery() string {
	return "SELECT COUNT(*) FROM Flowers"
}
