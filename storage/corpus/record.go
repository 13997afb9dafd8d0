package corpus

import (
	"bytes"
	"strconv"

	"github.com/navijation/pwnedsearch/util"
)

const separator = ':'

// Record is one line of a corpus.
type Record struct {
	// Offset is where the line starts; NextOffset is the first byte after its terminator, or the
	// corpus size for an unterminated last line.
	Offset     uint64
	NextOffset uint64
	// Line excludes the terminator. Key and Value alias it.
	Line  []byte
	Key   []byte
	Value util.Optional[[]byte]
}

// KeyValuePair is a record to be written. An absent Value is written without a separator.
type KeyValuePair struct {
	Key   []byte
	Value util.Optional[[]byte]
}

func newRecord(offset uint64, raw []byte) Record {
	line := bytes.TrimSuffix(raw, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})

	out := Record{
		Offset:     offset,
		NextOffset: offset + uint64(len(raw)),
		Line:       line,
		Key:        line,
	}
	if key, value, found := bytes.Cut(line, []byte{separator}); found {
		out.Key = key
		out.Value = util.Some(value)
	}
	return out
}

// Count parses the value as the number of times the key was seen.
func (me *Record) Count() (uint64, bool) {
	value, exists := me.Value.Unpack()
	if !exists {
		return 0, false
	}
	count, err := strconv.ParseUint(string(bytes.TrimSpace(value)), 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (me *Record) ToKeyValuePair() KeyValuePair {
	return KeyValuePair{
		Key:   me.Key,
		Value: me.Value,
	}
}
