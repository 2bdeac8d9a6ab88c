package rope

import "unicode/utf8"

// Chunk size limits, in bytes.
const (
	// MaxChunkSize is the largest chunk stored in a leaf.
	MaxChunkSize = 512

	// TargetChunkSize is the preferred size when splitting long text.
	TargetChunkSize = 384
)

// chunk is an immutable piece of text with its precomputed summary.
type chunk struct {
	text string
	sum  Summary
}

func newChunk(s string) chunk {
	return chunk{text: s, sum: Summarize(s)}
}

// splitText cuts s into chunks no larger than MaxChunkSize, never inside a
// UTF-8 sequence and preferably just after a newline.
func splitText(s string) []chunk {
	if len(s) == 0 {
		return nil
	}
	chunks := make([]chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := cutPoint(s, TargetChunkSize)
		chunks = append(chunks, newChunk(s[:cut]))
		s = s[cut:]
	}
	return append(chunks, newChunk(s))
}

// cutPoint picks a split offset near target.
func cutPoint(s string, target int) int {
	lo := target - TargetChunkSize/4
	hi := min(target+TargetChunkSize/4, MaxChunkSize, len(s))
	for i := target; i < hi; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}
	i := target
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	if i == 0 {
		// A pathological run of continuation bytes; cut anyway.
		return target
	}
	return i
}

// mergeChunks concatenates two chunk lists, coalescing the chunks that meet
// at the seam when they fit together.
func mergeChunks(left, right []chunk) []chunk {
	out := make([]chunk, 0, len(left)+len(right))
	out = append(out, left...)
	if len(out) > 0 && len(right) > 0 {
		last := out[len(out)-1]
		if last.sum.Bytes+right[0].sum.Bytes <= MaxChunkSize {
			out[len(out)-1] = chunk{
				text: last.text + right[0].text,
				sum:  last.sum.Add(right[0].sum),
			}
			right = right[1:]
		}
	}
	return append(out, right...)
}
