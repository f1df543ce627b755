package service

import (
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/repository"
)

// computeStatistics turns exact aspect sums into the published averages.
//
// Each aspect mean is rounded to two decimals with round-half-to-even, and
// overall is the mean of those five rounded values, rounded the same way.
// The arithmetic runs on integer hundredths so ties are detected exactly.
func computeStatistics(agg *repository.RatingAggregate) *dto.RatingStatistics {
	if agg == nil || agg.Total == 0 {
		return &dto.RatingStatistics{}
	}

	sums := [5]int64{agg.Composition, agg.ClarityFocus, agg.Lighting, agg.Creativity, agg.TechnicalAdaptation}
	var means [5]int64
	var total int64
	for i, sum := range sums {
		means[i] = divRoundHalfEven(sum*100, agg.Total)
		total += means[i]
	}

	return &dto.RatingStatistics{
		Composition:         hundredths(means[0]),
		ClarityFocus:        hundredths(means[1]),
		Lighting:            hundredths(means[2]),
		Creativity:          hundredths(means[3]),
		TechnicalAdaptation: hundredths(means[4]),
		Overall:             hundredths(divRoundHalfEven(total, int64(len(means)))),
		TotalRatings:        agg.Total,
	}
}

// divRoundHalfEven returns n/d rounded to the nearest integer, ties to even.
// n and d must be non-negative, d positive.
func divRoundHalfEven(n, d int64) int64 {
	q, r := n/d, n%d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}
	return q
}

func hundredths(v int64) float64 {
	return float64(v) / 100
}
