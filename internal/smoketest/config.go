package smoketest

import "time"

// Config holds configuration for the smoke test
type Config struct {
	BaseURL         string        // Base URL of the service
	NumObservations int           // Number of observations to submit
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	OutputFile      string        // Output file for submitted observations
	LogFile         string        // Log file for test output
	Verbose         bool          // Enable verbose logging
}

// Submission is a PUT /flowers body
type Submission struct {
	BinomialNomenclature string `json:"binomialNomenclature"`
	PetalCount           int64  `json:"petalCount"`
	Color                string `json:"color"`
}

// Record is a row returned by the list endpoints
type Record struct {
	ID         int64  `json:"id"`
	Genus      string `json:"genus"`
	Species    string `json:"species"`
	PetalCount int64  `json:"petalCount"`
	Color      string `json:"color"`
}

// Aggregates holds avg, min and max petal counts of one species
type Aggregates struct {
	Avg *float64
	Min *float64
	Max *float64
}

// Stats holds test statistics
type Stats struct {
	Generated         int
	Submitted         int
	Successful        int
	Failed            int
	SpeciesVerified   int
	RecordsRetrieved  int
	AggregatesChecked int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
