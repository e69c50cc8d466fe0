package localize

import (
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// Bucket is one of the six fixed dB-range buckets spec.md §4.5 defines
// for the strength_bucket_distribution.
type Bucket string

const (
	BucketL0 Bucket = "l0" // [-inf, 0)
	BucketL1 Bucket = "l1" // [0, 8)
	BucketL2 Bucket = "l2" // [8, 16)
	BucketL3 Bucket = "l3" // [16, 26)
	BucketL4 Bucket = "l4" // [26, 36)
	BucketL5 Bucket = "l5" // [36, inf)
)

func bucketFor(db float64) Bucket {
	switch {
	case db < 0:
		return BucketL0
	case db < 8:
		return BucketL1
	case db < 16:
		return BucketL2
	case db < 26:
		return BucketL3
	case db < 36:
		return BucketL4
	default:
		return BucketL5
	}
}

// canonicalLocationOrder breaks location-ordering ties deterministically.
var canonicalLocationOrder = []sample.Location{
	sample.LocationFrontLeftWheel, sample.LocationFrontRightWheel,
	sample.LocationRearLeftWheel, sample.LocationRearRightWheel,
	sample.LocationEngineBay, sample.LocationDriveshaftTunnel,
	sample.LocationTransmission, sample.LocationTrunk,
	sample.LocationDriverSeat, sample.LocationFrontPassengerSeat,
	sample.LocationDashboard, sample.LocationFrontSubframe,
	sample.LocationRearSubframe, sample.LocationOther,
}

func locationRank(loc sample.Location) int {
	for i, l := range canonicalLocationOrder {
		if l == loc {
			return i
		}
	}
	return len(canonicalLocationOrder)
}

// LocationIntensity is one row of AnalysisSummary.sensor_intensity_by_location.
type LocationIntensity struct {
	Location              sample.Location
	SampleCount           int
	SampleCoverageRatio   float64
	P50IntensityDB        float64
	P95IntensityDB        float64
	MaxIntensityDB        float64
	BucketPercent         map[Bucket]float64
	PartialCoverage       bool
	SampleCoverageWarning bool
}

// ComputeIntensityByLocation aggregates vibration_strength_db by
// canonical location (spec.md §4.5). vibration_strength_db = 0.0 is a
// valid measurement and is always counted — the normalizer guarantees
// the field is never a missing-value sentinel.
func ComputeIntensityByLocation(samples []sample.SampleRecord) []LocationIntensity {
	byLoc := make(map[sample.Location][]float64)
	for _, s := range samples {
		byLoc[s.Location] = append(byLoc[s.Location], s.VibrationStrengthDB)
	}
	maxCount := 0
	for _, vals := range byLoc {
		if len(vals) > maxCount {
			maxCount = len(vals)
		}
	}

	out := make([]LocationIntensity, 0, len(byLoc))
	for loc, vals := range byLoc {
		li := LocationIntensity{
			Location:       loc,
			SampleCount:    len(vals),
			P50IntensityDB: statx.Median(vals),
			P95IntensityDB: statx.WeightedPercentile(vals, nil, 95),
			BucketPercent:  make(map[Bucket]float64),
		}
		maxDB := vals[0]
		buckets := make(map[Bucket]int)
		for _, v := range vals {
			if v > maxDB {
				maxDB = v
			}
			buckets[bucketFor(v)]++
		}
		li.MaxIntensityDB = maxDB
		for _, b := range []Bucket{BucketL0, BucketL1, BucketL2, BucketL3, BucketL4, BucketL5} {
			li.BucketPercent[b] = 100.0 * float64(buckets[b]) / float64(len(vals))
		}
		if maxCount > 0 {
			li.SampleCoverageRatio = float64(len(vals)) / float64(maxCount)
		}
		li.PartialCoverage = li.SampleCoverageRatio < 0.40
		li.SampleCoverageWarning = li.SampleCount < 10 || li.PartialCoverage
		out = append(out, li)
	}

	sortByMaxDBDesc(out)
	return out
}

func sortByMaxDBDesc(rows []LocationIntensity) {
	// Small N (bounded by distinct canonical locations); insertion sort
	// keeps the comparator trivial to verify against spec.md §5's
	// ordering guarantee (max_intensity_db desc, ties by canonical order).
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && less(rows[j], rows[j-1]); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func less(a, b LocationIntensity) bool {
	if a.MaxIntensityDB != b.MaxIntensityDB {
		return a.MaxIntensityDB > b.MaxIntensityDB
	}
	return locationRank(a.Location) < locationRank(b.Location)
}
