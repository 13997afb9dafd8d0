package corpus

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"log"
	"os"

	"github.com/pkg/errors"
)

// Writer emits records in corpus format (`KEY:VALUE`, or `KEY` alone when there is no value), refusing any key that does not sort strictly after
// the previous one.
type Writer struct {
	writer     *bufio.Writer
	lastKey    []byte
	numRecords uint64
}

func NewWriter(writer io.Writer) *Writer {
	return &Writer{
		writer: bufio.NewWriter(writer),
	}
}

func (me *Writer) Append(keyValuePair KeyValuePair) error {
	value, hasValue := keyValuePair.Value.Unpack()
	if bytes.IndexByte(keyValuePair.Key, separator) >= 0 ||
		bytes.ContainsAny(keyValuePair.Key, "\r\n") ||
		bytes.ContainsAny(value, "\r\n") {
		return errors.Wrapf(ErrInvalidRecord, "%q:%q", keyValuePair.Key, value)
	}

	if me.numRecords > 0 && bytes.Compare(keyValuePair.Key, me.lastKey) != 1 {
		log.Printf("tried to append %q after last key %q", keyValuePair.Key, me.lastKey)
		return errors.Wrapf(ErrOutOfOrder, "appending %q", keyValuePair.Key)
	}

	if _, err := me.writer.Write(keyValuePair.Key); err != nil {
		return err
	}
	if hasValue {
		if err := me.writer.WriteByte(separator); err != nil {
			return err
		}
		if _, err := me.writer.Write(value); err != nil {
			return err
		}
	}
	if err := me.writer.WriteByte('\n'); err != nil {
		return err
	}

	me.lastKey = append(me.lastKey[:0], keyValuePair.Key...)
	me.numRecords++
	return nil
}

func (me *Writer) AppendAll(keyValuePairs iter.Seq[KeyValuePair]) error {
	for keyValuePair := range keyValuePairs {
		if err := me.Append(keyValuePair); err != nil {
			return err
		}
	}
	return nil
}

func (me *Writer) Flush() error {
	return me.writer.Flush()
}

func (me *Writer) NumRecords() uint64 {
	return me.numRecords
}

// CreateFile writes records to a new file at path. The file must not already exist; if writing
// fails it is removed.
func CreateFile(path string, keyValuePairs iter.Seq[KeyValuePair]) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	writer := NewWriter(file)
	if err := writer.AppendAll(keyValuePairs); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	return file.Sync()
}
