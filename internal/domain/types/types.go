// Package types contains common types used across the application
package types

import "github.com/okian/floradex/internal/domain/model"

// Record is the wire form of a stored observation.
type Record struct {
	ID         int64  `json:"id"`
	Genus      string `json:"genus"`
	Species    string `json:"species"`
	PetalCount int64  `json:"petalCount"`
	Color      string `json:"color"`
}

// Welcome is the GET / greeting.
type Welcome struct {
	Hello string `json:"Hello"`
}

// Stats is the GET /stats payload.
type Stats struct {
	Started      bool   `json:"started"`
	Driver       string `json:"driver"`
	Observations int64  `json:"observations"`
	Error        string `json:"error,omitempty"`
}

// FromObservation converts a domain observation to its wire form.
func FromObservation(o model.Observation) Record {
	return Record{
		ID:         o.ID,
		Genus:      o.Genus,
		Species:    o.Species,
		PetalCount: o.PetalCount,
		Color:      o.Color,
	}
}

// FromObservations converts a slice, never returning nil.
func FromObservations(obs []model.Observation) []Record {
	out := make([]Record, 0, len(obs))
	for _, o := range obs {
		out = append(out, FromObservation(o))
	}
	return out
}
