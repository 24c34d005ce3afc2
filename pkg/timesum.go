package reco

// TimeSums returns e1 + e2 - 2r for every pair of hits found on the two ends
// of an axis around every reference hit r. Both ends are scanned from the
// first hit after r - offset up to, but excluding, r + Width. All pairs are
// kept, so multi-hit and noise structure shows up in the distribution.
func TimeSums(reference []int64, end1 []int64, end2 []int64, offset int64) []int64 {
	timesums := make([]int64, 0, len(reference))

	for _, mcpHit := range reference {
		end1Start := UpperBound(end1, mcpHit-offset)
		end2Start := UpperBound(end2, mcpHit-offset)
		limit := mcpHit + Width

		for end1Focus := end1Start; end1Focus < len(end1) && end1[end1Focus] < limit; end1Focus++ {
			for end2Focus := end2Start; end2Focus < len(end2) && end2[end2Focus] < limit; end2Focus++ {
				timesums = append(timesums, end1[end1Focus]+end2[end2Focus]-2*mcpHit)
			}
		}
	}
	return timesums
}
