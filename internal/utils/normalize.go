package utils

// CreateRankList builds the 1-based rank column for an already-sorted
// candidate list, so responses carry position instead of raw scores.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
