package queryfix

// similarityRatio measures how alike two strings are, as twice the number of
// matching runes found by repeatedly taking the longest common substring,
// divided by the total length. Range [0, 1], with 1 meaning identical.
func similarityRatio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ar, br)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:i], b[:j]) +
		matchingRunes(a[i+size:], b[j+size:])
}

func longestCommonBlock(a, b []rune) (bestI, bestJ, bestSize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// row[j] is the length of the common suffix ending at a[i-1], b[j-1].
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev + 1
				if row[j] > bestSize {
					bestSize = row[j]
					bestI = i - bestSize
					bestJ = j - bestSize
				}
			} else {
				row[j] = 0
			}
			prev = cur
		}
	}
	return bestI, bestJ, bestSize
}
