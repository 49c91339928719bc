package smoketest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/floradex/pkg/logger"
)

// ErrMismatch marks a difference between submitted and served data.
var ErrMismatch = errors.New("smoke test mismatch")

type speciesKey struct {
	Genus   string
	Species string
}

// groupBySpecies collects submitted petal counts per genus and species.
func groupBySpecies(subs []Submission) map[speciesKey][]int64 {
	out := make(map[speciesKey][]int64)
	for _, s := range subs {
		tokens := strings.Fields(s.BinomialNomenclature)
		if len(tokens) != 2 {
			continue
		}
		k := speciesKey{Genus: tokens[0], Species: tokens[1]}
		out[k] = append(out[k], s.PetalCount)
	}
	return out
}

// expectedAggregates computes what the petal endpoints should return.
func expectedAggregates(petals []int64) Aggregates {
	if len(petals) == 0 {
		return Aggregates{}
	}
	lo, hi, sum := petals[0], petals[0], int64(0)
	for _, p := range petals {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
		sum += p
	}
	avg := float64(sum) / float64(len(petals))
	minF, maxF := float64(lo), float64(hi)
	return Aggregates{Avg: &avg, Min: &minF, Max: &maxF}
}

// verifyRecords checks a species listing against the submitted petal counts.
func verifyRecords(k speciesKey, petals []int64, records []Record) error {
	if len(records) != len(petals) {
		return fmt.Errorf("%w: %s %s: got %d records, submitted %d", ErrMismatch, k.Genus, k.Species, len(records), len(petals))
	}
	got := make([]int64, 0, len(records))
	for i, r := range records {
		if r.Genus != k.Genus || r.Species != k.Species {
			return fmt.Errorf("%w: record %d is %s %s", ErrMismatch, r.ID, r.Genus, r.Species)
		}
		if i > 0 && r.ID <= records[i-1].ID {
			return fmt.Errorf("%w: ids not ascending at %d", ErrMismatch, r.ID)
		}
		got = append(got, r.PetalCount)
	}
	want := append([]int64(nil), petals...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: %s %s petal counts differ", ErrMismatch, k.Genus, k.Species)
		}
	}
	return nil
}

// compareAggregate checks one served aggregate, where nil means JSON null.
func compareAggregate(kind string, got, want *float64) error {
	switch {
	case got == nil && want == nil:
		return nil
	case got == nil || want == nil:
		return fmt.Errorf("%w: %s: got %v, want %v", ErrMismatch, kind, fmtPtr(got), fmtPtr(want))
	case math.Abs(*got-*want) > aggregateTolerance:
		return fmt.Errorf("%w: %s: got %g, want %g", ErrMismatch, kind, *got, *want)
	}
	return nil
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%g", *v)
}

// verifyResults reads back every species of the run and compares it with
// what was submitted.
func verifyResults(ctx context.Context, config *Config, subs []Submission, runID string, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")
	client := newHTTPClient(config.Timeout)

	groups := groupBySpecies(subs)
	keys := make([]speciesKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Genus != keys[j].Genus {
			return keys[i].Genus < keys[j].Genus
		}
		return keys[i].Species < keys[j].Species
	})

	for _, k := range keys {
		base := speciesURL(config.BaseURL, k.Genus, k.Species)

		var records []Record
		status, err := client.getJSON(ctx, base, &records)
		if err != nil {
			return fmt.Errorf("list %s %s: %w", k.Genus, k.Species, err)
		}
		if status != StatusOK {
			return fmt.Errorf("%w: list %s %s: status %d", ErrMismatch, k.Genus, k.Species, status)
		}
		if err := verifyRecords(k, groups[k], records); err != nil {
			return err
		}
		stats.RecordsRetrieved += len(records)

		want := expectedAggregates(groups[k])
		for kind, w := range map[string]*float64{"avg": want.Avg, "min": want.Min, "max": want.Max} {
			var got *float64
			status, err := client.getJSON(ctx, base+"/petals/"+kind, &got)
			if err != nil {
				return fmt.Errorf("aggregate %s: %w", kind, err)
			}
			if status != StatusOK {
				return fmt.Errorf("%w: aggregate %s: status %d", ErrMismatch, kind, status)
			}
			if err := compareAggregate(kind, got, w); err != nil {
				return fmt.Errorf("%s %s: %w", k.Genus, k.Species, err)
			}
			stats.AggregatesChecked++
		}
		stats.SpeciesVerified++

		logger.Get().Debug(ctx, "species verified",
			logger.String("genus", k.Genus),
			logger.String("species", k.Species),
			logger.Int("records", len(records)))
	}

	return verifyMissingSpecies(ctx, client, config.BaseURL, runID)
}

// verifyMissingSpecies checks the asymmetric empty-result contract: lists
// answer 404, aggregates answer null.
func verifyMissingSpecies(ctx context.Context, client *HTTPClient, baseURL, runID string) error {
	base := speciesURL(baseURL, "Rosa", "nonexistent-"+runID)

	var records []Record
	status, err := client.getJSON(ctx, base, &records)
	if err != nil {
		return err
	}
	if status != StatusNotFound {
		return fmt.Errorf("%w: missing species list answered %d", ErrMismatch, status)
	}

	var got *float64
	if _, err := client.getJSON(ctx, base+"/petals/max", &got); err != nil {
		return err
	}
	return compareAggregate("max", got, nil)
}
