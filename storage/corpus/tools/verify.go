package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/navijation/pwnedsearch/hibp"
	"github.com/navijation/pwnedsearch/storage/corpus"
)

type verifyReport struct {
	Records uint64
	// Malformed counts keys that are not uppercase SHA-1 digests; they can never match a query.
	Malformed uint64
}

func verifyCorpusFiles(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errors.New("usage: verify path1 [path2 ...]")
	}

	var group errgroup.Group
	for _, path := range cmd.Args().Slice() {
		group.Go(func() error {
			report, err := verifyCorpusFile(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d records in order, %d keys are not uppercase SHA-1 digests\n",
				path, report.Records, report.Malformed)
			return nil
		})
	}
	return group.Wait()
}

func verifyCorpusFile(path string) (out verifyReport, _ error) {
	file, err := corpus.Open(corpus.OpenArgs{
		Path: path,
	})
	if err != nil {
		return out, err
	}

	defer file.Close()

	if err := file.Verify(); err != nil {
		return out, errors.Wrapf(err, "%q", path)
	}

	for record, err := range file.Records() {
		if err != nil {
			return out, errors.Wrapf(err, "%q", path)
		}
		out.Records++
		if key := string(record.Key); !hibp.IsDigest(key) || strings.ToUpper(key) != key {
			out.Malformed++
		}
	}

	return out, nil
}
