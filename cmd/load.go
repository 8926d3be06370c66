package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/ingest"
	"github.com/theapemachine/contract-search/pkg/stores/s3"
)

var (
	skipEmbeddings bool

	loadCmd = &cobra.Command{
		Use:   "load [dir]",
		Short: "Load extracted agreement JSON into the graph",
		Long:  longLoad,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				cfg.Ingest.Source = "dir"
				cfg.Ingest.Dir = args[0]
			}

			source, err := documentSource()

			if err != nil {
				return err
			}

			docs, err := source.Documents(ctx)

			if err != nil {
				return err
			}

			exec, err := connect(ctx)

			if err != nil {
				return err
			}

			defer exec.Close(ctx)

			options := []ingest.LoaderOption{ingest.WithConcurrency(cfg.Ingest.Concurrency)}

			if !skipEmbeddings {
				embedder, err := embedding.New(ctx, cfg.Embedding)

				if err != nil {
					return err
				}

				options = append(options, ingest.WithEmbedder(embedder))
			}

			report, err := ingest.NewLoader(exec, options...).Load(ctx, docs)

			if printErr := output(report, fmt.Sprintf(
				"loaded %d documents, %d failed, embedded %d excerpts",
				report.Loaded, len(report.Failed), report.Embedded,
			)); printErr != nil {
				return printErr
			}

			return err
		},
	}
)

func documentSource() (ingest.Source, error) {
	switch cfg.Ingest.Source {
	case "bucket":
		conn, err := s3.NewConn(cfg.Ingest.S3)

		if err != nil {
			return nil, err
		}

		return ingest.BucketSource{Store: conn, Bucket: cfg.Ingest.Bucket, Prefix: cfg.Ingest.Prefix}, nil
	default:
		return ingest.DirSource{Dir: cfg.Ingest.Dir}, nil
	}
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().BoolVar(&skipEmbeddings, "skip-embeddings", false, "do not embed excerpts after loading")
}

var longLoad = `
Load extracted agreement documents into the graph. Documents are read from
a local directory (ingest.dir, or the argument) or from an S3-compatible
bucket (ingest.source: bucket). Contract ids are assigned 1..N in name
order. Afterwards every excerpt without a vector is embedded.
`
