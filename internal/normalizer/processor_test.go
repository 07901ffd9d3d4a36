package normalizer

import (
	"errors"
	"testing"

	"steamdata/internal/models"
)

func TestProcessor_Eligible(t *testing.T) {
	p := NewProcessor(NewNormalizer(Options{}), "game")
	yes, no := true, false

	tests := []struct {
		name   string
		raw    *models.RawRecord
		ok     bool
		reason string
	}{
		{"nil", nil, false, ReasonNilRecord},
		{"missing success", &models.RawRecord{Data: &models.AppData{Type: "game"}}, false, ReasonFailed},
		{"failed", &models.RawRecord{Success: &no, Data: &models.AppData{Type: "game"}}, false, ReasonFailed},
		{"no data", &models.RawRecord{Success: &yes}, false, ReasonNoData},
		{"dlc", &models.RawRecord{Success: &yes, Data: &models.AppData{Type: "dlc"}}, false, ReasonWrongType},
		{"game", &models.RawRecord{Success: &yes, Data: &models.AppData{Type: "game"}}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := p.Eligible(tt.raw)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("Eligible() = %v, %q, want %v, %q", ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(NewNormalizer(Options{}), "game")
	yes := true

	rec, err := p.Process(&models.RawRecord{Success: &yes, QueryID: "7", Data: &models.AppData{Type: "game"}})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if rec[ColQueryID] != int64(7) {
		t.Errorf("QueryID = %v, want 7", rec[ColQueryID])
	}

	rec, err = p.Process(&models.RawRecord{Success: &yes, Data: &models.AppData{Type: "music"}})
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("Process() error = %v, want ErrNotEligible", err)
	}

	if rec != nil {
		t.Error("Process() returned a record for an ineligible input")
	}

	if p.Processed() != 1 {
		t.Errorf("Processed() = %d, want 1", p.Processed())
	}

	if got := p.Skipped()[ReasonWrongType]; got != 1 {
		t.Errorf("Skipped()[wrong_type] = %d, want 1", got)
	}
}
