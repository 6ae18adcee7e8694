package simhash

import "sort"

// sortUniqueFingerprints sorts ans ascending and removes adjacent
// duplicates in place, matching the outer dedup pass spec.md §4.4 requires
// of FindNearDups (a near-duplicate can be found through more than one
// block of the index).
func sortUniqueFingerprints(ans []Fingerprint) []Fingerprint {
	if len(ans) < 2 {
		return ans
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i] < ans[j] })
	out := ans[:1]
	for _, h := range ans[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}
