// Package hrw implements rendezvous (highest random weight) hashing: every
// key ranks all candidates by a keyed hash and picks the top scorers, so
// adding or removing a candidate only moves the keys it wins or loses.
package hrw

import (
	"encoding/binary"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// TopK returns up to k candidates with the highest scores for key, best
// first. seed namespaces the scores so that independent groups sharing
// candidate names do not route identically.
func TopK(key string, candidates []string, k int, seed string) []string {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	type scored struct {
		score uint64
		idx   int
	}
	all := make([]scored, len(candidates))
	keyB := []byte(key)
	for i, c := range candidates {
		all[i] = scored{score: score(keyB, c, seed), idx: i}
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].score == all[b].score {
			return candidates[all[a].idx] < candidates[all[b].idx]
		}
		return all[a].score > all[b].score
	})

	out := make([]string, k)
	for i := range out {
		out[i] = candidates[all[i].idx]
	}
	return out
}

// Pick returns the single best candidate for key. ok is false if there are
// no candidates.
func Pick(key string, candidates []string, seed string) (best string, ok bool) {
	out := TopK(key, candidates, 1, seed)
	if len(out) == 0 {
		return "", false
	}
	return out[0], true
}

func score(key []byte, candidate string, seed string) uint64 {
	// 8-byte digest => uint64 score; New only fails for invalid sizes/keys
	h, _ := blake2b.New(8, nil)
	if seed != "" {
		h.Write([]byte(seed))
		h.Write([]byte{0})
	}
	h.Write(key)
	h.Write([]byte{0})
	h.Write([]byte(candidate))
	return binary.BigEndian.Uint64(h.Sum(nil))
}
