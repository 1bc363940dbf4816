package blogservice

import "strings"

const wordsPerMinute = 200

// ReadingTime estimates the minutes needed to read a body at 200 words per
// minute, rounded up to the next whole minute. Words are whitespace-separated.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}

	return (words + wordsPerMinute - 1) / wordsPerMinute
}
