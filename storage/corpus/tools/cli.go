package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "corpus_tools",
		Usage: "build, merge and inspect sorted password digest corpora",
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "digest passwords read from stdin, one per line, into a new corpus",
				ArgsUsage: "dest_path",
				Action:    buildCorpusFile,
			},
			{
				Name:      "merge",
				Usage:     "merge sorted corpora into a new corpus, summing counts of shared digests",
				ArgsUsage: "dest_path src_path1 [src_path2 ...]",
				Action:    mergeCorpusFiles,
			},
			{
				Name:      "verify",
				Usage:     "check that corpora are sorted by strictly ascending key",
				ArgsUsage: "path1 [path2 ...]",
				Action:    verifyCorpusFiles,
			},
			{
				Name:      "visualize",
				Usage:     "print the records of a corpus with their offsets",
				ArgsUsage: "path",
				Action:    visualizeCorpusFile,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:        "limit",
						DefaultText: "all",
						Usage:       "maximum number of records to print",
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
