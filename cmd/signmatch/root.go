package main

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/hupe1980/signmatch"
	datasetminio "github.com/hupe1980/signmatch/dataset/minio"
	datasets3 "github.com/hupe1980/signmatch/dataset/s3"
	"github.com/hupe1980/signmatch/genai"
	"github.com/hupe1980/signmatch/refset"
	"github.com/hupe1980/signmatch/refset/ddb"
)

// commandContext carries lazily-loaded configuration and constructed
// collaborators to the subcommands.
type commandContext struct {
	configFlag *string
	verbose    *bool

	cfg    *Config
	logger *signmatch.Logger
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := *c.configFlag
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg

	level := slog.LevelWarn
	if *c.verbose {
		level = slog.LevelDebug
	}
	c.logger = signmatch.NewTextLogger(level)

	return c.cfg, nil
}

// entryStore returns the DynamoDB entry store, or nil when no table is
// configured.
func (c *commandContext) entryStore(ctx context.Context) (refset.Store, error) {
	if c.cfg.AWS.Table == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ddb.NewStore(dynamodb.NewFromConfig(awsCfg), c.cfg.AWS.Table), nil
}

// datasetStore returns the configured dataset object store: MinIO when
// an endpoint is set, S3 when a bucket is, nil otherwise.
func (c *commandContext) datasetStore(ctx context.Context) (datasetStore, error) {
	if c.cfg.MinIO.Endpoint != "" {
		client, err := minio.New(c.cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.cfg.MinIO.AccessKey, c.cfg.MinIO.SecretKey, ""),
			Secure: c.cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create MinIO client: %w", err)
		}
		return datasetminio.NewStore(client, c.cfg.MinIO.Bucket, c.cfg.AWS.DatasetPrefix), nil
	}

	if c.cfg.AWS.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return datasets3.NewStore(s3.NewFromConfig(awsCfg), c.cfg.AWS.Bucket, c.cfg.AWS.DatasetPrefix), nil
	}

	return nil, nil
}

// recognizer builds the full pipeline: builtin vocabulary merged with
// remote entries when a table is configured.
func (c *commandContext) recognizer(ctx context.Context) (*signmatch.Recognizer, error) {
	store, err := c.entryStore(ctx)
	if err != nil {
		return nil, err
	}

	setOpts := []refset.Option{refset.WithLogger(c.logger.Logger)}
	if store != nil {
		setOpts = append(setOpts, refset.WithStore(store))
	}

	set := refset.New(refset.Builtin(), setOpts...)
	if store != nil {
		if err := set.Refresh(ctx); err != nil {
			// Builtin vocabulary still works; warn and continue.
			c.logger.Warn("failed to refresh reference set", "error", err)
		}
	}

	client := genai.NewOpenAI(genai.OpenAIConfig{
		APIKey:            c.cfg.GenAI.APIKey,
		BaseURL:           c.cfg.GenAI.BaseURL,
		Model:             c.cfg.GenAI.Model,
		RequestsPerSecond: c.cfg.GenAI.RequestsPerSecond,
	})

	return signmatch.New(client, set,
		signmatch.WithThreshold(c.cfg.Matching.Threshold),
		signmatch.WithFallbackLabel(c.cfg.Matching.FallbackLabel),
		signmatch.WithLogger(c.logger),
	)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "signmatch",
		Short:         "Sign recognition pipeline CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				// config init writes the file the other commands load.
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newRecognizeCommand(ctx))
	rootCmd.AddCommand(newDatasetCommand(ctx))
	rootCmd.AddCommand(newVocabCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
