// Package cvss computes CVSS v2 and v3.x base scores from vector strings and
// maps scores to the severity ratings shown for hosts, results and reports.
package cvss

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidVector is returned for vectors with unknown or missing metrics.
	ErrInvalidVector = errors.New("invalid cvss vector")
)

// Version of a parsed vector.
type Version string

const (
	V2  Version = "2.0"
	V30 Version = "3.0"
	V31 Version = "3.1"
)

// Vector is a parsed base vector.
type Vector struct {
	Version Version
	Metrics map[string]string
}

var v2Metrics = map[string]map[string]float64{
	"AV": {"L": 0.395, "A": 0.646, "N": 1.0},
	"AC": {"H": 0.35, "M": 0.61, "L": 0.71},
	"Au": {"M": 0.45, "S": 0.56, "N": 0.704},
	"C":  {"N": 0, "P": 0.275, "C": 0.660},
	"I":  {"N": 0, "P": 0.275, "C": 0.660},
	"A":  {"N": 0, "P": 0.275, "C": 0.660},
}

var v2Order = []string{"AV", "AC", "Au", "C", "I", "A"}

var v3Metrics = map[string]map[string]float64{
	"AV": {"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2},
	"AC": {"L": 0.77, "H": 0.44},
	"PR": {"N": 0.85, "L": 0.62, "H": 0.27},
	"UI": {"N": 0.85, "R": 0.62},
	"S":  {"U": 0, "C": 0},
	"C":  {"H": 0.56, "L": 0.22, "N": 0},
	"I":  {"H": 0.56, "L": 0.22, "N": 0},
	"A":  {"H": 0.56, "L": 0.22, "N": 0},
}

var v3Order = []string{"AV", "AC", "PR", "UI", "S", "C", "I", "A"}

// ParseVector parses a v2 ("AV:N/AC:L/...") or v3 ("CVSS:3.1/AV:N/...") base vector.
// Temporal and environmental metrics are ignored.
func ParseVector(s string) (*Vector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidVector
	}
	s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")

	v := &Vector{Version: V2, Metrics: map[string]string{}}
	table, order := v2Metrics, v2Order

	parts := strings.Split(s, "/")
	if prefix, ver, ok := strings.Cut(parts[0], ":"); ok && prefix == "CVSS" {
		switch ver {
		case "3.0":
			v.Version = V30
		case "3.1":
			v.Version = V31
		default:
			return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidVector, ver)
		}
		table, order = v3Metrics, v3Order
		parts = parts[1:]
	}

	for _, p := range parts {
		k, val, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("%w: malformed metric %q", ErrInvalidVector, p)
		}
		allowed, known := table[k]
		if !known {
			continue
		}
		if _, ok := allowed[val]; !ok {
			return nil, fmt.Errorf("%w: bad value %q for %s", ErrInvalidVector, val, k)
		}
		v.Metrics[k] = val
	}
	for _, k := range order {
		if _, ok := v.Metrics[k]; !ok {
			return nil, fmt.Errorf("%w: missing metric %s", ErrInvalidVector, k)
		}
	}
	return v, nil
}

// String returns the canonical vector string.
func (v *Vector) String() string {
	order := v2Order
	var b strings.Builder
	if v.Version != V2 {
		order = v3Order
		b.WriteString("CVSS:" + string(v.Version))
	}
	for _, k := range order {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(k + ":" + v.Metrics[k])
	}
	return b.String()
}

// BaseScore returns the base score of the vector.
func (v *Vector) BaseScore() float64 {
	if v.Version == V2 {
		return v.v2Score()
	}
	return v.v3Score()
}

func (v *Vector) v2Score() float64 {
	m := func(k string) float64 { return v2Metrics[k][v.Metrics[k]] }

	impact := 10.41 * (1 - (1-m("C"))*(1-m("I"))*(1-m("A")))
	exploitability := 20 * m("AV") * m("AC") * m("Au")
	f := 1.176
	if impact == 0 {
		f = 0
	}
	score := ((0.6 * impact) + (0.4 * exploitability) - 1.5) * f
	return math.Round(score*10) / 10
}

func (v *Vector) v3Score() float64 {
	m := func(k string) float64 { return v3Metrics[k][v.Metrics[k]] }
	changed := v.Metrics["S"] == "C"

	pr := m("PR")
	if changed {
		switch v.Metrics["PR"] {
		case "L":
			pr = 0.68
		case "H":
			pr = 0.5
		}
	}

	iss := 1 - (1-m("C"))*(1-m("I"))*(1-m("A"))
	var impact float64
	if changed {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	exploitability := 8.22 * m("AV") * m("AC") * pr * m("UI")

	if impact <= 0 {
		return 0
	}
	if changed {
		return roundUp(math.Min(1.08*(impact+exploitability), 10))
	}
	return roundUp(math.Min(impact+exploitability, 10))
}

// roundUp is the CVSS v3.1 Roundup function.
func roundUp(f float64) float64 {
	i := int64(math.Round(f * 100000))
	if i%10000 == 0 {
		return float64(i) / 100000
	}
	return (math.Floor(float64(i)/10000) + 1) / 10
}

// BaseScoreFromVector parses s and returns its base score.
func BaseScoreFromVector(s string) (float64, error) {
	v, err := ParseVector(s)
	if err != nil {
		return 0, err
	}
	return v.BaseScore(), nil
}
