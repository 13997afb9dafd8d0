package hibp

import (
	"iter"
	"maps"
	"slices"
	"strconv"

	"github.com/navijation/pwnedsearch/storage/corpus"
	"github.com/navijation/pwnedsearch/util"
)

// BuildCorpus digests every password and returns one record per distinct digest, sorted by key,
// whose value is the number of times it was seen.
func BuildCorpus(passwords iter.Seq[string]) []corpus.KeyValuePair {
	counts := make(map[string]uint64)
	for password := range passwords {
		counts[Digest(password)]++
	}

	out := make([]corpus.KeyValuePair, 0, len(counts))
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, corpus.KeyValuePair{
			Key:   []byte(key),
			Value: util.Some(strconv.AppendUint(nil, counts[key], 10)),
		})
	}
	return out
}
