package smoketest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/floradex/pkg/logger"
)

// runIDLength is how much of a UUID tags one run's species names.
const runIDLength = 8

// plant describes a species the generator draws from.
type plant struct {
	genus     string
	species   string
	minPetals int64
	maxPetals int64
}

var catalog = []plant{
	{genus: "Rosa", species: "canina", minPetals: 5, maxPetals: 5},
	{genus: "Rosa", species: "rubiginosa", minPetals: 5, maxPetals: 7},
	{genus: "Bellis", species: "perennis", minPetals: 15, maxPetals: 30},
	{genus: "Tulipa", species: "gesneriana", minPetals: 6, maxPetals: 6},
	{genus: "Helianthus", species: "annuus", minPetals: 13, maxPetals: 34},
	{genus: "Papaver", species: "rhoeas", minPetals: 4, maxPetals: 4},
	{genus: "Lilium", species: "candidum", minPetals: 6, maxPetals: 6},
}

var colors = []string{"white", "pink", "red", "yellow", "orange", "purple"}

// randInt returns a uniform value in [0, n) using crypto/rand.
func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// NewRunID returns a short id that keeps one run's species apart from
// data already in the store.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:runIDLength]
}

// generateSubmissions creates n submissions spread over the catalog. Species
// names carry runID so every species is unique to this run.
func generateSubmissions(ctx context.Context, n int, runID string, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating observations", logger.Int("count", n), logger.String("runID", runID))

	subs := make([]Submission, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		subs = append(subs, generateSingle(i, runID))
	}

	stats.Generated = len(subs)
	return subs, nil
}

// generateSingle picks the plant round-robin so small runs still cover the catalog.
func generateSingle(index int, runID string) Submission {
	p := catalog[index%len(catalog)]
	petals := p.minPetals
	if span := p.maxPetals - p.minPetals; span > 0 {
		petals += randInt(span + 1)
	}
	return Submission{
		BinomialNomenclature: p.genus + " " + p.species + "-" + runID,
		PetalCount:           petals,
		Color:                colors[randInt(int64(len(colors)))],
	}
}
