package utils

// SplitText cuts text into rune-safe chunks of at most chunkSize characters
// with overlap characters carried between neighbours, so an answer that
// straddles a boundary is still retrievable from at least one chunk.
// Clinic knowledge documents are short prose; character slicing is enough
// and never loses content the way word-aware trimming could.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		// Degenerate overlap would loop forever; fall back to disjoint
		// chunks.
		step = chunkSize
	}

	runes := []rune(text)
	total := len(runes)

	var chunks []string
	for i := 0; i < total; i += step {
		end := i + chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == total {
			break
		}
	}

	return chunks
}
