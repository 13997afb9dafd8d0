package util

import (
	"io"

	"github.com/pkg/errors"
)

var _ io.Reader = (*FileWrapper)(nil)

// FileWrapper reads from an io.ReaderAt starting at an offset. Every read goes through `ReadAt`,
// which does not mutate any shared file descriptor state, so any number of wrappers can be
// positioned independently over a single open file.
type FileWrapper struct {
	file   io.ReaderAt
	offset uint64
	size   uint64
}

func NewFileWrapperAt(file io.ReaderAt, size, offset uint64) FileWrapper {
	return FileWrapper{
		file:   file,
		offset: offset,
		size:   size,
	}
}

// Read never reads past the size the wrapper was created with, even if the underlying file
// has grown since. Running out of bytes before that size means the file shrank, which is
// reported as io.ErrUnexpectedEOF rather than a clean end.
func (me *FileWrapper) Read(b []byte) (n int, err error) {
	if me.offset >= me.size {
		return 0, io.EOF
	}
	if remaining := me.size - me.offset; uint64(len(b)) > remaining {
		b = b[:remaining]
	}
	n, err = me.file.ReadAt(b, int64(me.offset))
	me.offset += uint64(n)
	if errors.Is(err, io.EOF) {
		if n == len(b) {
			return n, nil
		}
		return n, errors.Wrapf(io.ErrUnexpectedEOF, "file ended at offset %d before size %d", me.offset, me.size)
	}
	return n, err
}

func Ptr[T any](v T) *T {
	return &v
}
