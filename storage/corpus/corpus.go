package corpus

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"os"

	"github.com/pkg/errors"

	"github.com/navijation/pwnedsearch/util"
)

const (
	defaultBufferSize = 4096
)

var (
	ErrEmptyCorpus   = errors.New("corpus is empty")
	ErrOutOfOrder    = errors.New("keys are not in strictly ascending order")
	ErrInvalidRecord = errors.New("record is not representable as a corpus line")
)

// Corpus is a read-only view over a sorted, line-delimited file of `KEY:VALUE` records.
//
// All reads go through `ReadAt` at explicit offsets, so a Corpus holds no cursor state and
// independent lookups may share one.
type Corpus struct {
	path       string
	file       io.ReaderAt
	closer     io.Closer
	size       uint64
	bufferSize int
}

type OpenArgs struct {
	Path       string
	BufferSize util.Optional[int]
}

func Open(args OpenArgs) (out *Corpus, err error) {
	file, err := os.OpenFile(args.Path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open corpus %q", args.Path)
	}

	defer func() {
		if err != nil {
			_ = file.Close()
		}
	}()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat corpus %q", args.Path)
	}
	if fileInfo.IsDir() {
		return nil, errors.Errorf("corpus %q is a directory", args.Path)
	}
	if fileInfo.Size() == 0 {
		return nil, errors.Wrapf(ErrEmptyCorpus, "%q", args.Path)
	}

	out = FromReaderAt(file, uint64(fileInfo.Size()))
	out.path = args.Path
	out.closer = file
	out.bufferSize = util.OrIfZero(args.BufferSize, defaultBufferSize)

	return out, nil
}

// FromReaderAt wraps the first size bytes of file. The caller keeps ownership of file.
func FromReaderAt(file io.ReaderAt, size uint64) *Corpus {
	return &Corpus{
		file:       file,
		size:       size,
		bufferSize: defaultBufferSize,
	}
}

func (me *Corpus) Close() error {
	if me.closer != nil {
		return me.closer.Close()
	}
	return nil
}

func (me *Corpus) Path() string {
	return me.path
}

func (me *Corpus) Size() uint64 {
	return me.size
}

// RecordAt returns the canonical record at offset: the one whose line starts at the smallest
// line start that is >= offset. Offset 0 is always the first record. If no line starts at or
// after offset, exists is false.
func (me *Corpus) RecordAt(offset uint64) (out Record, exists bool, _ error) {
	if offset >= me.size {
		return out, false, nil
	}

	if offset == 0 {
		return me.readRecord(me.readBufferAt(0), 0)
	}

	// Starting one byte early means an offset that is already a line start only discards the
	// previous terminator.
	buffer := me.readBufferAt(offset - 1)
	n, err := discardLine(buffer)
	if errors.Is(err, io.EOF) {
		// offset is inside the last line, which started before it
		return out, false, nil
	}
	if err != nil {
		return out, false, errors.Wrapf(err, "failed to align offset %d", offset)
	}

	return me.readRecord(buffer, offset-1+n)
}

// Records iterates over every record from the start of the corpus.
func (me *Corpus) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		buffer := me.readBufferAt(0)

		for offset := uint64(0); offset < me.size; {
			record, exists, err := me.readRecord(buffer, offset)
			if err != nil {
				yield(record, err)
				return
			}
			if !exists || !yield(record, nil) {
				return
			}
			offset = record.NextOffset
		}
	}
}

// Verify checks that keys are strictly ascending.
func (me *Corpus) Verify() error {
	var (
		previous    Record
		hasPrevious bool
	)
	for record, err := range me.Records() {
		if err != nil {
			return err
		}
		if hasPrevious && bytes.Compare(previous.Key, record.Key) >= 0 {
			return errors.Wrapf(
				ErrOutOfOrder, "key %q at offset %d follows %q at offset %d",
				record.Key, record.Offset, previous.Key, previous.Offset,
			)
		}
		previous, hasPrevious = record, true
	}
	return nil
}

func (me *Corpus) readRecord(buffer *bufio.Reader, offset uint64) (out Record, exists bool, _ error) {
	if offset >= me.size {
		return out, false, nil
	}

	raw, err := buffer.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return out, false, errors.Wrapf(err, "failed to read record at offset %d", offset)
	}
	if len(raw) == 0 {
		return out, false, nil
	}

	return newRecord(offset, raw), true, nil
}

func (me *Corpus) readBufferAt(offset uint64) *bufio.Reader {
	return bufio.NewReaderSize(util.Ptr(util.NewFileWrapperAt(me.file, me.size, offset)), me.bufferSize)
}

// discardLine consumes bytes through the next LF and returns how many were consumed. It returns
// io.EOF if there is no LF before the end.
func discardLine(buffer *bufio.Reader) (n uint64, _ error) {
	for {
		chunk, err := buffer.ReadSlice('\n')
		n += uint64(len(chunk))
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return n, err
	}
}
