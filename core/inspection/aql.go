package inspection

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/streamlineer/streamlineer/core/template"
)

// Rejection reason codes reported with a failed AQL evaluation.
const (
	RejectionCritical   = "CRITICAL_EXCEEDED"
	RejectionMajor      = "MAJOR_EXCEEDED"
	RejectionMinor      = "MINOR_EXCEEDED"
	RejectionOverridden = "OVERRIDDEN_BY_INSPECTOR"
)

// lotSizeBucket maps a lot-size upper bound to a General Inspection Level II
// sample size.
type lotSizeBucket struct {
	upper  int
	sample int
}

var lotSizeBuckets = []lotSizeBucket{
	{8, 2}, {15, 3}, {25, 5}, {50, 8}, {90, 13}, {150, 20}, {280, 32},
	{500, 50}, {1200, 80}, {3200, 125}, {10000, 200}, {35000, 315},
	{150000, 500}, {500000, 800},
}

const maxSampleSize = 1250

// EstimateSampleSize maps a lot size to a sample size using coarse Level II
// buckets.
func EstimateSampleSize(lotSize int) int {
	if lotSize < 1 {
		lotSize = 1
	}
	for _, b := range lotSizeBuckets {
		if lotSize <= b.upper {
			return b.sample
		}
	}
	return maxSampleSize
}

// AQLCriteria is a sampling plan summary derived from lot size and AQL level.
type AQLCriteria struct {
	SampleSize             int `json:"sample_size"`
	CriticalDefectsAllowed int `json:"critical_defects_allowed"`
	MajorDefectsAllowed    int `json:"major_defects_allowed"`
	MinorDefectsAllowed    int `json:"minor_defects_allowed"`
}

// CalculateAQLCriteria derives allowed defect counts from the target AQL
// percentage. Critical defects are never allowed.
func CalculateAQLCriteria(lotSize int, aqlLevel float64) AQLCriteria {
	if aqlLevel <= 0 {
		aqlLevel = 2.5
	}
	sampleSize := EstimateSampleSize(lotSize)
	return AQLCriteria{
		SampleSize:             sampleSize,
		CriticalDefectsAllowed: 0,
		MajorDefectsAllowed:    int(math.Round(float64(sampleSize) * aqlLevel / 100)),
		MinorDefectsAllowed:    int(math.Round(float64(sampleSize) * aqlLevel * 1.6 / 100)),
	}
}

// ProcessResults evaluates inspection responses against a template's AQL
// configuration. When explicit totals ("critical_defects" etc.) are absent it
// aggregates per-question counts from keys ending in the severity suffixes.
func ProcessResults(responses Responses, cfg template.AQLConfig) AQLResult {
	counts := DefectCounts{
		Critical: responseInt(responses, "critical_defects", "__critical_text"),
		Major:    responseInt(responses, "major_defects", "__major_text"),
		Minor:    responseInt(responses, "minor_defects", "__minor_text"),
	}

	result := AQLResult{DefectCounts: counts, Passed: true, RejectionReasons: []string{}}
	if counts.Critical > cfg.CriticalDefectsAllowed {
		result.Passed = false
		result.RejectionReasons = append(result.RejectionReasons, RejectionCritical)
	}
	if counts.Major > cfg.MajorDefectsAllowed {
		result.Passed = false
		result.RejectionReasons = append(result.RejectionReasons, RejectionMajor)
	}
	if counts.Minor > cfg.MinorDefectsAllowed {
		result.Passed = false
		result.RejectionReasons = append(result.RejectionReasons, RejectionMinor)
	}
	return result
}

// responseInt returns the explicit total under key, falling back to the sum
// of every per-question value whose key carries the severity suffix.
func responseInt(responses Responses, key, suffix string) int {
	if n := safeInt(responses[key]); n > 0 {
		return n
	}
	var total int
	for k, v := range responses {
		if strings.HasSuffix(k, suffix) {
			total += safeInt(v)
		}
	}
	return total
}

// safeInt coerces a JSON response value to a non-negative int, treating
// anything unparseable as zero.
func safeInt(v interface{}) int {
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case float64:
		n = int(val)
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return 0
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		n = i
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
