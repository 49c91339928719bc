// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Submission keys accepted by PUT /flowers. A body must carry exactly these.
const (
	KeyBinomialNomenclature = "binomialNomenclature"
	KeyPetalCount           = "petalCount"
	KeyColor                = "color"
)

// MaxPetalCount is the largest petal count the petal_count INTEGER column holds.
const MaxPetalCount = math.MaxInt32

var submissionKeys = []string{KeyBinomialNomenclature, KeyColor, KeyPetalCount}

// Observation is one stored flower sighting.
type Observation struct {
	ID         int64  // assigned by the store, starts at 1
	Genus      string // first token of the binomial name
	Species    string // second token of the binomial name
	PetalCount int64  // >= 0
	Color      string // free-form, non-empty
}

// Submission is a validated PUT /flowers body.
type Submission struct {
	Genus      string
	Species    string
	PetalCount int64
	Color      string

	// Payload is the decoded body as submitted, numbers kept as json.Number
	// so it re-encodes exactly as received.
	Payload map[string]any
}

// Observation converts the submission into an unsaved observation (ID 0).
func (s Submission) Observation() Observation {
	return Observation{
		Genus:      s.Genus,
		Species:    s.Species,
		PetalCount: s.PetalCount,
		Color:      s.Color,
	}
}

// ParseSubmission decodes and validates a PUT /flowers body.
// Every failure wraps ErrInvalidSubmission.
func ParseSubmission(body []byte) (Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return Submission{}, fmt.Errorf("%w: body must be a JSON object: %w", ErrInvalidSubmission, err)
	}
	if payload == nil {
		return Submission{}, fmt.Errorf("%w: body must be a JSON object", ErrInvalidSubmission)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Submission{}, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidSubmission)
	}

	if err := checkKeys(payload); err != nil {
		return Submission{}, err
	}

	name, ok := payload[KeyBinomialNomenclature].(string)
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s must be a string", ErrInvalidSubmission, KeyBinomialNomenclature)
	}
	genus, species, err := SplitBinomial(name)
	if err != nil {
		return Submission{}, err
	}

	petals, err := parsePetalCount(payload[KeyPetalCount])
	if err != nil {
		return Submission{}, err
	}

	color, ok := payload[KeyColor].(string)
	if !ok || strings.TrimSpace(color) == "" {
		return Submission{}, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidSubmission, KeyColor)
	}

	return Submission{
		Genus:      genus,
		Species:    species,
		PetalCount: petals,
		Color:      color,
		Payload:    payload,
	}, nil
}

// checkKeys rejects bodies whose key set differs from the three submission keys.
func checkKeys(payload map[string]any) error {
	var missing, extra []string
	for _, k := range submissionKeys {
		if _, ok := payload[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range payload {
		if !isSubmissionKey(k) {
			extra = append(extra, k)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return &KeySetError{Missing: missing, Extra: extra}
}

func isSubmissionKey(k string) bool {
	for _, want := range submissionKeys {
		if k == want {
			return true
		}
	}
	return false
}

// SplitBinomial splits "Genus species" into its two whitespace-separated tokens.
func SplitBinomial(name string) (genus, species string, err error) {
	tokens := strings.Fields(name)
	if len(tokens) != 2 {
		return "", "", fmt.Errorf("%w: %s must be exactly two words, got %d", ErrInvalidSubmission, KeyBinomialNomenclature, len(tokens))
	}
	return tokens[0], tokens[1], nil
}

// parsePetalCount accepts a JSON integer (5, 5.0) or a string holding one ("5"),
// in the range 0..MaxPetalCount.
func parsePetalCount(v any) (int64, error) {
	var n int64
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = i
			break
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidSubmission, KeyPetalCount)
		}
		n = int64(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidSubmission, KeyPetalCount)
		}
		n = i
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidSubmission, KeyPetalCount)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidSubmission, KeyPetalCount)
	}
	if n > MaxPetalCount {
		return 0, fmt.Errorf("%w: %s must be at most %d", ErrInvalidSubmission, KeyPetalCount, MaxPetalCount)
	}
	return n, nil
}
