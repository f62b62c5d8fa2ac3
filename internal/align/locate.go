// Package align locates AI correction annotations inside the live essay text
// and turns them into renderable highlight spans. The document may have been
// edited since the annotations were generated, so location is best-effort:
// exact substring search first, then a whitespace-normalized fuzzy search.
package align

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the document.
type Span struct {
	Start int
	End   int
}

// Locate finds the best-effort span of needle inside document.
// The second return value is false when the needle cannot be located.
//
// Search order, first success wins:
//  1. exact substring search
//  2. whitespace-normalized search: runs of whitespace in both document and
//     needle collapse to a single space, the match is found in the normalized
//     view, and both endpoints are mapped back to original byte offsets
//
// An empty or whitespace-only needle is a miss, not an error. Locate is a pure
// function: identical inputs always produce identical results.
//
// When the fuzzy path succeeds, End-Start generally differs from len(needle)
// because the matched region keeps its original whitespace run lengths.
func Locate(document, needle string) (Span, bool) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return Span{}, false
	}

	if idx := strings.Index(document, needle); idx >= 0 {
		return Span{Start: idx, End: idx + len(needle)}, true
	}

	return locateNormalized(document, needle)
}

// locateNormalized collapses whitespace in both strings and searches the
// normalized document for the normalized needle, mapping the result back to
// original offsets by walking the index map to the true end of the match.
func locateNormalized(document, needle string) (Span, bool) {
	normDoc, indexMap := normalize(document)
	normNeedle, _ := normalize(needle)
	if normNeedle == "" {
		return Span{}, false
	}

	idx := strings.Index(normDoc, normNeedle)
	if idx < 0 {
		return Span{}, false
	}

	start := indexMap[idx]

	// The needle is trimmed, so the last normalized byte is never a collapsed
	// space: it maps 1:1 to an original byte, and one past it is the exclusive
	// end of the match in original coordinates.
	lastNorm := idx + len(normNeedle) - 1
	end := indexMap[lastNorm] + 1

	return Span{Start: start, End: end}, true
}

// normalize returns document with every whitespace run collapsed to a single
// space, plus an index map from each normalized byte offset back to the
// original byte offset it was produced from. A collapsed whitespace run maps
// to the offset of its first whitespace byte. Leading and trailing whitespace
// is dropped entirely.
func normalize(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	indexMap := make([]int, 0, len(s))

	inSpace := false
	spaceStart := 0
	started := false

	for i, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				inSpace = true
				spaceStart = i
			}
			continue
		}
		if inSpace && started {
			b.WriteByte(' ')
			indexMap = append(indexMap, spaceStart)
		}
		inSpace = false
		started = true

		n := utf8.RuneLen(r)
		b.WriteString(s[i : i+n])
		for j := 0; j < n; j++ {
			indexMap = append(indexMap, i+j)
		}
	}

	return b.String(), indexMap
}
