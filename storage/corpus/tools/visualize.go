package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/navijation/pwnedsearch/storage/corpus"
)

func visualizeCorpusFile(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: visualize path")
	}

	path := cmd.Args().First()
	limit := cmd.Uint("limit")

	file, err := corpus.Open(corpus.OpenArgs{
		Path: path,
	})
	if err != nil {
		return err
	}

	defer file.Close()

	fmt.Printf(
		"Corpus\n"+
			"  Path: %s\n"+
			"  Size: %d\n\n",
		file.Path(),
		file.Size(),
	)

	fmt.Printf("Records:\n")
	var printed uint64
	for record, err := range file.Records() {
		if err != nil {
			return errors.Wrap(err, "failed to read record")
		}
		if limit != 0 && printed == limit {
			fmt.Printf("  ...\n")
			break
		}

		value, hasValue := record.Value.Unpack()
		if hasValue {
			fmt.Printf("  - @%d-%d: %q -> %q\n", record.Offset, record.NextOffset, record.Key, value)
		} else {
			fmt.Printf("  - @%d-%d: %q (no value)\n", record.Offset, record.NextOffset, record.Key)
		}
		printed++
	}

	return nil
}
