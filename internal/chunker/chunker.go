package chunker

import "strings"

// DefaultMaxWords is the chunk size used when no override is given.
// Sized to keep a chunk comfortably inside a summarization model's
// input window.
const DefaultMaxWords = 800

// Split breaks text into chunks of at most maxWords whitespace-delimited
// words. Chunks partition the input exactly: no overlap, no gaps, words
// are never split. Joining the chunks with single spaces reproduces the
// whitespace-normalized input.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := min(start+maxWords, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
