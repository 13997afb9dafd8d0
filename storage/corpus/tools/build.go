package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/navijation/pwnedsearch/hibp"
	"github.com/navijation/pwnedsearch/storage/corpus"
	"github.com/navijation/pwnedsearch/util"
)

func buildCorpusFile(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: build dest_path")
	}

	path := cmd.Args().First()

	numPasswords, numDigests, err := buildCorpus(path, os.Stdin)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d digests of %d passwords to %s\n", numDigests, numPasswords, path)
	return nil
}

func buildCorpus(path string, input io.Reader) (numPasswords, numDigests int, _ error) {
	var passwords []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		passwords = append(passwords, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to read passwords")
	}

	keyValuePairs := hibp.BuildCorpus(util.SeqOf(passwords...))
	if err := corpus.CreateFile(path, util.SeqOf(keyValuePairs...)); err != nil {
		return 0, 0, err
	}

	return len(passwords), len(keyValuePairs), nil
}
