package retention

import "sort"

// Select picks the indices to delete so that the retained set fits within
// budget. Records are visited newest first, so the most recent data is
// preferentially kept; every record that does not fit the remaining budget
// is marked for deletion, regardless of age. The returned names are in
// visit order. The sort is stable, so records sharing a creation timestamp
// keep their input order and the result is deterministic for a
// deterministic input.
//
// A record whose size alone exceeds the whole budget is always deleted,
// and a budget of zero deletes every record.
func Select(records []IndexRecord, budget int64) []string {
	sorted := make([]IndexRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreationDate > sorted[j].CreationDate
	})

	var used int64
	doomed := make([]string, 0)
	for _, rec := range sorted {
		if used < budget && used+rec.SizeBytes < budget {
			used += rec.SizeBytes
			continue
		}
		doomed = append(doomed, rec.Name)
	}
	return doomed
}
