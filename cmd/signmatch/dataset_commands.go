package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/signmatch/dataset"
	"github.com/hupe1980/signmatch/model"
)

// datasetStore is the subset of the object-store APIs the CLI needs;
// both the S3 and the MinIO store satisfy it.
type datasetStore interface {
	Put(ctx context.Context, name string, envelope []byte) error
	Get(ctx context.Context, name string) (*dataset.Dataset, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

var errNoDatasetStore = errors.New("no dataset store configured (set aws.bucket or minio.endpoint)")

func newDatasetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage uploaded reference datasets",
		Long: `Manage uploaded reference datasets.

Datasets are JSON files with labeled feature entries, uploaded by an
admin to extend the builtin vocabulary:

  {
    "name": "asl-basic-v2",
    "entries": [
      {"label": "hello", "features": [0.8, 0.9, 0.7, 0.85, 0.92], "confidence": 0.95}
    ]
  }

Uploading stores the dataset envelope in the object store and writes
the entries to the DynamoDB table so the app picks them up on the next
reference-set refresh.`,
	}

	cmd.AddCommand(newDatasetUploadCommand(ctx))
	cmd.AddCommand(newDatasetListCommand(ctx))
	cmd.AddCommand(newDatasetShowCommand(ctx))
	cmd.AddCommand(newDatasetDeleteCommand(ctx))

	return cmd
}

func newDatasetUploadCommand(ctx *commandContext) *cobra.Command {
	var compressionFlag string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a dataset JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read dataset file: %w", err)
			}

			var in struct {
				Name    string        `json:"name"`
				Entries []model.Entry `json:"entries"`
			}
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("failed to parse dataset file: %w", err)
			}
			if in.Name == "" {
				return errors.New("dataset file must carry a name")
			}

			ds := dataset.New(in.Name, in.Entries)
			if err := ds.Validate(); err != nil {
				return err
			}

			comp, err := parseCompression(compressionFlag)
			if err != nil {
				return err
			}

			envelope, err := dataset.Encode(ds, nil, comp)
			if err != nil {
				return err
			}

			store, err := ctx.datasetStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errNoDatasetStore
			}
			if err := store.Put(cmd.Context(), ds.Name, envelope); err != nil {
				return err
			}

			// Make the entries matchable: write them to the entry store
			// consulted on reference-set refresh.
			entryStore, err := ctx.entryStore(cmd.Context())
			if err != nil {
				return err
			}
			if entryStore != nil {
				if err := entryStore.Put(cmd.Context(), ds.Entries); err != nil {
					return fmt.Errorf("dataset stored, but entry store update failed: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %q: %d entries (%s)\n", ds.Name, len(ds.Entries), comp)
			return nil
		},
	}

	cmd.Flags().StringVar(&compressionFlag, "compression", "zstd", "Envelope compression: none, zstd, lz4")

	return cmd
}

func newDatasetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.datasetStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errNoDatasetStore
			}

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no datasets")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newDatasetShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a dataset's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.datasetStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errNoDatasetStore
			}

			ds, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ds)
		},
	}
}

func newDatasetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an uploaded dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.datasetStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errNoDatasetStore
			}
			return store.Delete(cmd.Context(), args[0])
		},
	}
}

func parseCompression(s string) (dataset.Compression, error) {
	switch s {
	case "none":
		return dataset.CompressionNone, nil
	case "zstd", "":
		return dataset.CompressionZstd, nil
	case "lz4":
		return dataset.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, or lz4)", s)
	}
}
