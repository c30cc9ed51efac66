package evaluation

// RecallAtK computes the fraction of relevant documents that appear in
// the top-K retrieved results. Returns 0.0 when relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	found := 0
	for _, id := range topK(retrieved, k) {
		if contains(relevant, id) {
			found++
		}
	}

	return float64(found) / float64(len(relevant))
}

// MRRAtK computes the reciprocal rank of the first relevant document in
// the top-K retrieved results. Returns 0.0 when none appears.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	for i, id := range topK(retrieved, k) {
		if contains(relevant, id) {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

func topK(items []string, k int) []string {
	if k < len(items) {
		return items[:k]
	}
	return items
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
