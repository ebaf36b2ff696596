package utils

// UniqueUint removes duplicate values from a slice of uints, preserving the
// first-seen order.
func UniqueUint(slice []uint) []uint {
	seen := make(map[uint]bool, len(slice))
	list := make([]uint, 0, len(slice))
	for _, entry := range slice {
		if !seen[entry] {
			seen[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

// UniqueStrings removes duplicate strings, preserving the first-seen order.
func UniqueStrings(slice []string) []string {
	seen := make(map[string]bool, len(slice))
	list := make([]string, 0, len(slice))
	for _, entry := range slice {
		if !seen[entry] {
			seen[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
