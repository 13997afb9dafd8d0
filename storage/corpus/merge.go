package corpus

import (
	"bytes"
	"iter"
	"strconv"

	"github.com/navijation/pwnedsearch/util"
	"github.com/navijation/pwnedsearch/util/heap"
)

type mergeCursor struct {
	source int
	record Record
	next   func() (Record, error, bool)
}

// Merge writes the union of srcs to dst in key order. Records sharing a key are combined into
// one: their counts are summed if every value is a count, otherwise the earliest source wins.
// Records are otherwise copied as read, including lines that have no value.
func Merge(dst *Writer, srcs ...*Corpus) error {
	cursors := make([]*mergeCursor, 0, len(srcs))
	for i, src := range srcs {
		next, stop := iter.Pull2(src.Records())
		defer stop()

		record, err, exists := next()
		if err != nil {
			return err
		}
		if exists {
			cursors = append(cursors, &mergeCursor{source: i, record: record, next: next})
		}
	}

	queue := heap.NewHeap(func(a, b *mergeCursor) int {
		if cmp := bytes.Compare(a.record.Key, b.record.Key); cmp != 0 {
			return cmp
		}
		return a.source - b.source
	}, cursors...)

	advance := func() error {
		cursor := queue.Peek()
		record, err, exists := cursor.next()
		if err != nil {
			return err
		}
		if !exists {
			queue.Pop()
			return nil
		}
		cursor.record = record
		queue.ReplaceTop(cursor)
		return nil
	}

	for queue.Size() > 0 {
		first := queue.Peek().record
		merged := first.ToKeyValuePair()
		total, countable := first.Count()
		duplicates := 0

		if err := advance(); err != nil {
			return err
		}

		for queue.Size() > 0 && bytes.Equal(queue.Peek().record.Key, first.Key) {
			duplicate := queue.Peek().record
			count, ok := duplicate.Count()
			countable = countable && ok
			total += count
			duplicates++

			if err := advance(); err != nil {
				return err
			}
		}

		if duplicates > 0 && countable {
			merged.Value = util.Some(strconv.AppendUint(nil, total, 10))
		}

		if err := dst.Append(merged); err != nil {
			return err
		}
	}

	return dst.Flush()
}
