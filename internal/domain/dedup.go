package domain

// Partition splits candidates into admitted and rejected, in input order.
//
// A candidate is rejected when its URL is already in known or was admitted
// earlier in the same batch (first seen wins). known is not modified.
func Partition(candidates []RawSuggestion, known map[string]struct{}) (admitted, rejected []RawSuggestion) {
	seen := make(map[string]struct{}, len(known)+len(candidates))
	for u := range known {
		seen[u] = struct{}{}
	}

	admitted = make([]RawSuggestion, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.URL]; dup {
			rejected = append(rejected, c)
			continue
		}
		seen[c.URL] = struct{}{}
		admitted = append(admitted, c)
	}
	return admitted, rejected
}
