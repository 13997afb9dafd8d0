package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/navijation/pwnedsearch/storage/corpus"
)

type mergeReport struct {
	Sources int
	Records uint64
}

func mergeCorpusFiles(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return errors.New("usage: merge dest_path src_path1 [src_path2 ...]")
	}

	destPath := cmd.Args().Get(0)

	report, err := mergeCorpusPaths(destPath, cmd.Args().Slice()[1:])
	if err != nil {
		return err
	}

	fmt.Printf("Merged %d corpora into %d records in %s\n", report.Sources, report.Records, destPath)
	return nil
}

// mergeCorpusPaths merges the corpora at srcPaths into a new file at destPath. Empty sources are
// skipped; the destination is removed if the merge fails.
func mergeCorpusPaths(destPath string, srcPaths []string) (out mergeReport, err error) {
	var srcs []*corpus.Corpus
	for _, srcPath := range srcPaths {
		src, err := corpus.Open(corpus.OpenArgs{
			Path: srcPath,
		})
		if errors.Is(err, corpus.ErrEmptyCorpus) {
			continue
		}
		if err != nil {
			return out, err
		}
		defer src.Close()
		srcs = append(srcs, src)
	}

	file, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return out, errors.Wrapf(err, "failed to create %q", destPath)
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	writer := corpus.NewWriter(file)
	if err := corpus.Merge(writer, srcs...); err != nil {
		return out, err
	}
	if err := file.Sync(); err != nil {
		return out, err
	}

	return mergeReport{Sources: len(srcs), Records: writer.NumRecords()}, nil
}
