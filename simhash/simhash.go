// Package simhash fingerprints page text so that near-identical pages can
// be spotted cheaply, e.g. a paginator that keeps serving the same page.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint computes a 64-bit SimHash of the given text.
// Uses FNV-64a hash on lower-cased word tokens with bit vector accumulation.
func Fingerprint(text string) uint64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	return fingerprintTokens(words)
}

func fingerprintTokens(tokens []string) uint64 {
	var vector [64]int

	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance returns the Hamming distance between two SimHash fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar returns true if the Hamming distance between two fingerprints
// is less than or equal to the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Sequence hands back the fingerprint observed before each new one.
// The zero value is ready to use. Not safe for concurrent use.
type Sequence struct {
	prev uint64
	seen bool
}

// Observe records fp and returns the previous fingerprint. ok is false for
// the first observation or when either fingerprint is zero.
func (s *Sequence) Observe(fp uint64) (prev uint64, ok bool) {
	prev, seen := s.prev, s.seen
	s.prev, s.seen = fp, true
	if !seen || prev == 0 || fp == 0 {
		return 0, false
	}
	return prev, true
}
