package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/navijation/pwnedsearch/hibp"
	"github.com/navijation/pwnedsearch/storage/corpus"
	"github.com/navijation/pwnedsearch/util"
)

var errUsage = errors.New("usage: pwnedsearch [--verbose] [--buffer-size N] <file_path> <password_or_hash>; flags go before the arguments")

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:            "pwnedsearch",
		Usage:           "check whether a password or SHA-1 digest appears in a sorted Pwned Passwords file",
		ArgsUsage:       "[--verbose] [--buffer-size N] <file_path> <password_or_hash>",
		HideHelpCommand: true,
		Writer:          stdout,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every step of the search",
			},
			&cli.UintFlag{
				Name:  "buffer-size",
				Value: 4096,
				Usage: "size in bytes of the read buffer used for each probe",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return lookup(cmd, stdout)
		},
	}
}

func lookup(cmd *cli.Command, stdout io.Writer) error {
	if cmd.Args().Len() != 2 {
		return errUsage
	}

	path, query := cmd.Args().Get(0), cmd.Args().Get(1)
	key := hibp.QueryKey(query)

	file, err := corpus.Open(corpus.OpenArgs{
		Path:       path,
		BufferSize: util.Some(int(cmd.Uint("buffer-size"))),
	})
	if err != nil {
		return err
	}

	defer file.Close()

	args := corpus.SearchArgs{
		Key: []byte(key),
	}

	verbose := cmd.Bool("verbose")
	lookupID := util.NewLookupID()
	if verbose {
		log.Printf("lookup %s: searching %q (%d bytes) for %s\n", lookupID, path, file.Size(), key)
		args.OnStep = func(step corpus.SearchStep) {
			if !step.Exists {
				log.Printf("lookup %s: iteration %d: no line starts in [%d, %d)\n",
					lookupID, step.Iteration, step.Mid, step.High)
				return
			}
			log.Printf("lookup %s: iteration %d: comparing target hash %s with %s\n",
				lookupID, step.Iteration, key, step.Record.Key)
		}
	}

	result, err := file.Search(args)
	if err != nil {
		return errors.Wrapf(err, "failed to search %q", path)
	}

	if verbose {
		log.Printf("lookup %s: total iterations: %d (%d comparisons)\n",
			lookupID, result.Iterations, result.Comparisons)
	}

	if !result.Found {
		fmt.Fprintln(stdout, "Hash not found.")
		return nil
	}

	fmt.Fprintf(stdout, "Found: %s\n", result.Record.Line)
	if count, ok := result.Record.Count(); ok {
		fmt.Fprintf(stdout, "Seen %d times\n", count)
	}
	return nil
}
