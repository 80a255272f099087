package analytics

// Normalize rescales values linearly into [0,1] using (x-min)/(max-min).
// A constant series maps every value to 0.
func Normalize(values []float64) []float64 {
	result := make([]float64, len(values))
	if len(values) == 0 {
		return result
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := hi - lo
	if span == 0 {
		return result
	}

	for i, v := range values {
		result[i] = (v - lo) / span
	}
	return result
}

// NormalizeDailyTotals returns a copy of stats with the normalized columns filled
// in, each column scaled independently.
func NormalizeDailyTotals(stats []DateStat) []DateStat {
	clicks := make([]float64, len(stats))
	impressions := make([]float64, len(stats))
	ctr := make([]float64, len(stats))
	for i, s := range stats {
		clicks[i] = float64(s.Clicks)
		impressions[i] = float64(s.Impressions)
		ctr[i] = s.CTR
	}

	clicks = Normalize(clicks)
	impressions = Normalize(impressions)
	ctr = Normalize(ctr)

	result := make([]DateStat, len(stats))
	for i, s := range stats {
		s.NormalizedClicks = clicks[i]
		s.NormalizedImpressions = impressions[i]
		s.NormalizedCTR = ctr[i]
		result[i] = s
	}
	return result
}
