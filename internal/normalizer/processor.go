package normalizer

import (
	"errors"
	"fmt"

	"steamdata/internal/models"
)

// ErrNotEligible is returned by Process for records excluded by the
// eligibility filter.
var ErrNotEligible = errors.New("record not eligible")

// Skip reasons reported by Eligible.
const (
	ReasonNilRecord = "nil_record"
	ReasonFailed    = "not_success"
	ReasonNoData    = "no_data"
	ReasonWrongType = "wrong_type"
)

// Processor filters raw records and normalizes the eligible ones.
type Processor struct {
	normalizer   *Normalizer
	expectedType string
	skipped      map[string]int
	processed    int
}

// NewProcessor creates a processor accepting records whose data.type equals
// expectedType.
func NewProcessor(n *Normalizer, expectedType string) *Processor {
	return &Processor{
		normalizer:   n,
		expectedType: expectedType,
		skipped:      make(map[string]int),
	}
}

// Eligible reports whether raw should be normalized. When it should not, the
// second value names the reason.
func (p *Processor) Eligible(raw *models.RawRecord) (bool, string) {
	switch {
	case raw == nil:
		return false, ReasonNilRecord
	case !raw.IsSuccess():
		return false, ReasonFailed
	case raw.Data == nil:
		return false, ReasonNoData
	case raw.Data.Type != p.expectedType:
		return false, ReasonWrongType
	}

	return true, ""
}

// Process normalizes raw if it is eligible. Ineligible records are counted
// by reason and reported as ErrNotEligible.
func (p *Processor) Process(raw *models.RawRecord) (Record, error) {
	ok, reason := p.Eligible(raw)
	if !ok {
		p.skipped[reason]++
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, reason)
	}

	p.processed++

	return p.normalizer.Normalize(raw), nil
}

// Processed returns the number of records normalized so far.
func (p *Processor) Processed() int {
	return p.processed
}

// Skipped returns a copy of the skip counters keyed by reason.
func (p *Processor) Skipped() map[string]int {
	out := make(map[string]int, len(p.skipped))
	for k, v := range p.skipped {
		out[k] = v
	}

	return out
}
