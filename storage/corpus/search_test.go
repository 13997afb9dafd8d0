package corpus

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upperSHA1(s string) string {
	sum := sha1.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// generatedCorpus returns a sorted corpus of n digest keys whose values vary in length.
func generatedCorpus(n int, value func(i int) string) (content string, keys []string) {
	for i := range n {
		keys = append(keys, upperSHA1(fmt.Sprintf("password%d", i)))
	}
	slices.Sort(keys)

	var builder strings.Builder
	for i, key := range keys {
		builder.WriteString(key + ":" + value(i) + "\n")
	}
	return builder.String(), keys
}

// searchChecked runs a search and checks the window shrinks on every iteration.
func searchChecked(t *testing.T, c *Corpus, key string) SearchResult {
	var steps []SearchStep
	result, err := c.Search(SearchArgs{
		Key: []byte(key),
		OnStep: func(step SearchStep) {
			steps = append(steps, step)
		},
	})
	require.NoError(t, err)
	require.Len(t, steps, result.Iterations)

	comparisons := 0
	for i, step := range steps {
		assert.Equal(t, i+1, step.Iteration)
		assert.Less(t, step.Low, step.High, "window must be non-empty while searching")
		assert.GreaterOrEqual(t, step.Mid, step.Low)
		assert.Less(t, step.Mid, step.High)
		if step.Exists {
			comparisons++
			assert.GreaterOrEqual(t, step.Record.Offset, step.Mid)
			assert.Less(t, step.Record.Offset, step.High)
		}
		if i > 0 {
			prev := steps[i-1]
			assert.Less(t, step.High-step.Low, prev.High-prev.Low, "window must strictly shrink")
		}
	}
	assert.Equal(t, comparisons, result.Comparisons)

	if c.Size() > 0 {
		bound := int(math.Ceil(math.Log2(float64(c.Size())))) + 2
		assert.LessOrEqual(t, result.Comparisons, bound, "key %s", key)
	}

	return result
}

func TestSearch_Scenarios(t *testing.T) {
	c := newMemCorpus(scenarioCorpus)

	for _, tc := range []struct {
		name  string
		key   string
		found bool
		line  string
	}{
		{
			name:  "mid hit",
			key:   "7C4A8D09CA3762AF61E59520943DC26494F8941B",
			found: true,
			line:  "7C4A8D09CA3762AF61E59520943DC26494F8941B:2",
		},
		{
			name:  "right edge hit",
			key:   "F7C3BC1D808E04732ADF679965CCC34CA7AE3441",
			found: true,
			line:  "F7C3BC1D808E04732ADF679965CCC34CA7AE3441:3",
		},
		{
			name:  "left edge hit",
			key:   "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FID",
			found: true,
			line:  "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FID:1",
		},
		{name: "below minimum", key: "0000000000000000000000000000000000000000"},
		{name: "above maximum", key: "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF"},
		{name: "adjacent miss", key: "7C4A8D09CA3762AF61E59520943DC26494F8941A"},
		{name: "corrupted digest", key: "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8"},
		{name: "lowercase", key: "7c4a8d09ca3762af61e59520943dc26494f8941b"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result := searchChecked(t, c, tc.key)
			assert.Equal(t, tc.found, result.Found)
			if tc.found {
				assert.Equal(t, tc.line, string(result.Record.Line))
				assert.Equal(t, tc.key, string(result.Record.Key))
			} else {
				assert.Zero(t, result.Record)
			}
		})
	}
}

func TestSearch_BelowMinimumReachesFirstLine(t *testing.T) {
	c := newMemCorpus(scenarioCorpus)

	var last SearchStep
	result, err := c.Search(SearchArgs{
		Key:    []byte("0000000000000000000000000000000000000000"),
		OnStep: func(step SearchStep) { last = step },
	})
	require.NoError(t, err)
	assert.False(t, result.Found)

	assert.Equal(t, uint64(0), last.Mid)
	assert.True(t, last.Exists)
	assert.Equal(t, uint64(0), last.Record.Offset)
	assert.Equal(t, 1, last.Comparison)
}

func TestSearch_Generated(t *testing.T) {
	for _, tc := range []struct {
		name  string
		n     int
		value func(i int) string
	}{
		{name: "fixed width", n: 2000, value: func(int) string { return "1" }},
		{name: "counts", n: 2000, value: func(i int) string { return fmt.Sprint(i * i * 7919) }},
		{name: "ragged", n: 500, value: func(i int) string { return strings.Repeat("9", (i*37)%301) }},
		{name: "tiny", n: 2, value: func(i int) string { return fmt.Sprint(i) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			content, keys := generatedCorpus(tc.n, tc.value)
			c := newMemCorpus(content)
			require.NoError(t, c.Verify())

			for i, key := range keys {
				result := searchChecked(t, c, key)
				require.True(t, result.Found, "key %s", key)
				assert.Equal(t, key+":"+tc.value(i), string(result.Record.Line))
			}

			absent := []string{
				"0000000000000000000000000000000000000000",
				"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
			}
			for i := range 200 {
				absent = append(absent, upperSHA1(fmt.Sprintf("not-a-password%d", i)))
			}
			for _, key := range keys[:min(len(keys), 50)] {
				// one below and one above each present key
				absent = append(absent, key[:39]+"!", key+"0")
			}
			for _, key := range absent {
				if _, present := slices.BinarySearch(keys, key); present {
					continue
				}
				result := searchChecked(t, c, key)
				assert.False(t, result.Found, "key %s", key)
			}
		})
	}
}

func TestSearch_TerminatorVariants(t *testing.T) {
	content, keys := generatedCorpus(100, func(i int) string { return fmt.Sprint(i) })

	for _, tc := range []struct {
		name    string
		content string
	}{
		{name: "trailing terminator", content: content},
		{name: "no trailing terminator", content: strings.TrimSuffix(content, "\n")},
		{name: "crlf", content: strings.ReplaceAll(content, "\n", "\r\n")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newMemCorpus(tc.content)
			for i, key := range keys {
				result := searchChecked(t, c, key)
				require.True(t, result.Found, key)
				assert.Equal(t, fmt.Sprintf("%s:%d", key, i), string(result.Record.Line))
			}
		})
	}
}

func TestSearch_MalformedLines(t *testing.T) {
	c := newMemCorpus("AAAA:1\nBBBB\nCCCC:3\nDDDD")

	for _, key := range []string{"AAAA", "BBBB", "CCCC", "DDDD"} {
		result := searchChecked(t, c, key)
		assert.True(t, result.Found, key)
		assert.Equal(t, key, string(result.Record.Key))
	}

	result := searchChecked(t, c, "BBBC")
	assert.False(t, result.Found)
}

func TestSearch_Duplicates(t *testing.T) {
	c := newMemCorpus("A:1\nB:1\nB:2\nB:3\nB:4\nC:1\n")

	result := searchChecked(t, c, "B")
	require.True(t, result.Found)
	assert.Equal(t, "B", string(result.Record.Key))
	assert.True(t, bytes.HasPrefix(result.Record.Line, []byte("B:")))
}

func TestSearch_EmptyCorpus(t *testing.T) {
	c := newMemCorpus("")

	result, err := c.Search(SearchArgs{Key: []byte("0000000000000000000000000000000000000000")})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Zero(t, result.Iterations)
}

func TestSearch_RandomSubsets(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	_, universe := generatedCorpus(300, func(int) string { return "" })

	for round := range 50 {
		var (
			present []string
			builder strings.Builder
		)
		for _, key := range universe {
			if rng.IntN(3) == 0 {
				present = append(present, key)
				builder.WriteString(key + ":" + strings.Repeat("5", rng.IntN(20)) + "\n")
			}
		}
		c := newMemCorpus(builder.String())

		for _, key := range universe {
			_, want := slices.BinarySearch(present, key)
			result := searchChecked(t, c, key)
			assert.Equal(t, want, result.Found, "round %d key %s", round, key)
		}
	}
}
