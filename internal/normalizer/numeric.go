package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"steamdata/internal/logger"
)

// Coercer converts loosely typed scalars to numbers. Unparseable input is
// replaced by the call-site default and reported as a diagnostic; it never
// fails the caller. A nil *Coercer coerces silently.
type Coercer struct {
	log      *logger.Logger
	failures int
}

// NewCoercer creates a coercer reporting diagnostics to log.
func NewCoercer(log *logger.Logger) *Coercer {
	return &Coercer{log: log}
}

// Failures returns the number of diagnostics emitted so far.
func (c *Coercer) Failures() int {
	if c == nil {
		return 0
	}

	return c.failures
}

// ToInt coerces value with a silent coercer.
func ToInt(value any, def int64) int64 {
	var c *Coercer
	return c.ToInt(value, def)
}

// ToFloat coerces value with a silent coercer.
func ToFloat(value any, def float64) float64 {
	var c *Coercer
	return c.ToFloat(value, def)
}

// ToInt converts value to an integer. nil, empty and whitespace-only input
// return def silently; anything else that does not parse returns def and
// emits a diagnostic. Whole floats inside the int64 range ("12.0", 12.0) are
// accepted; fractional or out-of-range ones are not, whether they arrive as
// numbers or text.
func (c *Coercer) ToInt(value any, def int64) int64 {
	switch v := value.(type) {
	case nil:
		return def
	case int:
		return int64(v)
	case int64:
		return v
	case bool:
		if v {
			return 1
		}

		return 0
	case float64:
		if n, ok := integral(v); ok {
			return n
		}

		c.diagnose("int", value)

		return def
	case json.Number:
		return c.parseInt(string(v), value, def)
	case string:
		return c.parseInt(v, value, def)
	}

	c.diagnose("int", value)

	return def
}

// ToFloat converts value to a float with the same rules as ToInt.
func (c *Coercer) ToFloat(value any, def float64) float64 {
	switch v := value.(type) {
	case nil:
		return def
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}

		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.diagnose("float", value)
			return def
		}

		return v
	case json.Number:
		return c.parseFloat(string(v), value, def)
	case string:
		return c.parseFloat(v, value, def)
	}

	c.diagnose("float", value)

	return def
}

func (c *Coercer) parseInt(s string, orig any, def int64) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if n, ok := integral(f); ok {
			return n
		}
	}

	c.diagnose("int", orig)

	return def
}

// integral converts f when it is a whole number inside the int64 range.
func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

func (c *Coercer) parseFloat(s string, orig any, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		c.diagnose("float", orig)
		return def
	}

	return f
}

func (c *Coercer) diagnose(kind string, value any) {
	if c == nil {
		return
	}

	c.failures++

	if c.log != nil {
		c.log.Warn("numeric coercion failed, using default", "want", kind, "value", value)
	}
}

// Truthy reports whether a loosely typed flag is set. The store API sends
// both JSON booleans and the strings "true"/"false".
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}

		return false
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	}

	return false
}
