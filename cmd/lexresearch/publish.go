package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lexresearch-backend/app"
	"lexresearch-backend/corpus"
	"lexresearch-backend/models"
	"lexresearch-backend/repository"
	"lexresearch-backend/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	publishTarget  string
	publishName    string
	publishReplace string
)

var publishCmd = &cobra.Command{
	Use:   "publish-corpus [file]",
	Short: "Validate a corpus file and publish it to storage or Postgres",
	Long: `Validate a JSON or YAML corpus file and publish it.

Targets:
  storage   upload to the configured STORAGE_TYPE backend under a versioned key;
            --replace deletes the previously published key afterwards
  postgres  replace the named corpus in the legal_authorities table`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishTarget, "target", "storage", "Publish target: storage or postgres")
	publishCmd.Flags().StringVar(&publishName, "name", "default", "Corpus name")
	publishCmd.Flags().StringVar(&publishReplace, "replace", "", "Storage key of a previous version to delete after publishing")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}
	records, err := corpus.DecodeRecords(data, path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("corpus %s has no records", path)
	}

	policy, err := corpus.ParseCollisionPolicy(cfg.IDCollision)
	if err != nil {
		return err
	}
	authorities := make([]*models.Authority, 0, len(records))
	for _, raw := range records {
		a := corpus.Normalize(raw)
		logger.Debug("validated authority", zap.String("authority", corpus.Describe(a)))
		authorities = append(authorities, a)
	}
	if store := corpus.NewStore(authorities, policy); store.Collisions() > 0 {
		logger.Warn("corpus has duplicate authority ids",
			zap.Int("collisions", store.Collisions()), zap.String("policy", string(policy)))
	}

	switch publishTarget {
	case "storage":
		objects, err := storage.NewStorage(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		key, err := storage.Replace(ctx, objects, publishReplace, publishName, filepath.Base(path), bytes.NewReader(data))
		if err != nil {
			return err
		}
		if publishReplace != "" {
			fmt.Printf("Deleted previous version %s\n", publishReplace)
		}
		fmt.Printf("Published %d record(s) to %s\n", len(records), key)
		fmt.Printf("Set LEXRESEARCH_CORPUS_SOURCE=storage LEXRESEARCH_CORPUS_KEY=%s to serve it.\n", key)
	case "postgres":
		pool, err := app.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		n, err := repository.NewAuthorityRepository(pool, publishName).ReplaceAll(ctx, records)
		if err != nil {
			return err
		}
		fmt.Printf("Stored %d record(s) in corpus %q\n", n, publishName)
	default:
		return fmt.Errorf("unknown publish target: %s", publishTarget)
	}
	return nil
}
