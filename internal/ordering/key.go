package ordering

// Key builds the ordering key for a student in a course. Both identifiers
// must be stable across sessions and devices (database ids, not emails or
// display names).
func Key(studentID, courseID string) string {
	return studentID + KeySeparator + courseID
}

// hashKey folds the code points of key into a 32-bit seed.
// Invalid UTF-8 bytes contribute U+FFFD.
func hashKey(key string) uint32 {
	h := hashOffsetBasis
	for _, r := range key {
		h = h*hashMultiplier + uint32(r)
	}
	return h
}
