package retention

// ComputeBudget derives the byte budget from per-node total disk
// capacities and the percentage threshold: sum × threshold / 100,
// truncated toward zero. For thresholds in [0,100] the result is always
// within [0, sum]. Thresholds outside that range are a caller error and
// are rejected at configuration validation, not here.
func ComputeBudget(nodeTotals []int64, thresholdPercent int) int64 {
	var sum int64
	for _, total := range nodeTotals {
		sum += total
	}
	return sum * int64(thresholdPercent) / 100
}
