// Package simhash fingerprints short text blocks so near-duplicate page
// content can be skipped.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// Fingerprint computes a 64-bit SimHash of text. Tokens are the lowercased
// words with surrounding punctuation stripped, hashed with FNV-64a.
func Fingerprint(text string) uint64 {
	words := tokens(text)
	if len(words) == 0 {
		return 0
	}

	var vector [64]int
	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

func tokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Index remembers fingerprints of accepted blocks. Not safe for concurrent use.
type Index struct {
	threshold int
	seen      []uint64
}

// NewIndex returns an Index treating blocks within threshold bits as duplicates.
func NewIndex(threshold int) *Index {
	return &Index{threshold: threshold}
}

// Add records text and reports whether it was new. Text without any word
// tokens is never recorded and always reported as a duplicate.
func (x *Index) Add(text string) bool {
	fp := Fingerprint(text)
	if fp == 0 {
		return false
	}
	for _, s := range x.seen {
		if Similar(fp, s, x.threshold) {
			return false
		}
	}
	x.seen = append(x.seen, fp)
	return true
}

// Len returns the number of recorded fingerprints.
func (x *Index) Len() int {
	return len(x.seen)
}
