package main

import (
	"bytes"
	"os"

	"bailbridge-backend/bootstrap"
	"bailbridge-backend/config"
	"bailbridge-backend/reference"
	"bailbridge-backend/repository"
	"bailbridge-backend/storage"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed-sections",
	Short: "Load the penal-code section dataset into Postgres and/or object storage",
	Long:  "Reads a section CSV (the bundled sample by default), replaces the penal_sections table, and uploads the file under the reference object key.",
	RunE:  runSeed,
	Args:  cobra.NoArgs,

	SilenceUsage: true,
}

func init() {
	seedCmd.Flags().String("file", "", "CSV to load (default: bundled sample dataset)")
	seedCmd.Flags().Bool("db", true, "create and replace the penal_sections table")
	seedCmd.Flags().Bool("storage", false, "upload the CSV to object storage")
	seedCmd.Flags().String("key", "", "object key for the upload (default reference.object_key)")
}

func main() {
	if err := seedCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "load config")
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return eris.Wrap(err, "init logger")
	}
	defer zap.L().Sync() //nolint:errcheck

	file, _ := cmd.Flags().GetString("file")
	toDB, _ := cmd.Flags().GetBool("db")
	toStorage, _ := cmd.Flags().GetBool("storage")
	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = cfg.Reference.ObjectKey
	}

	data, err := readDataset(file)
	if err != nil {
		return err
	}
	lines := reference.SplitLines(string(data))
	log := zap.L().With(zap.Int("lines", len(lines)))

	if toDB {
		pool, err := bootstrap.NewPostgresPool(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := repository.NewSectionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		n, err := repo.ReplaceAll(ctx, lines)
		if err != nil {
			return err
		}
		log.Info("seeded penal_sections table", zap.Int64("rows", n))
	}

	if toStorage {
		store, err := storage.NewStorage(ctx, cfg.Storage)
		if err != nil {
			return eris.Wrap(err, "init storage")
		}
		stored, err := store.Upload(ctx, key, bytes.NewReader(data))
		if err != nil {
			return err
		}
		log.Info("uploaded dataset object", zap.String("key", stored), zap.String("storage", string(cfg.Storage.Type)))
	}

	if !toDB && !toStorage {
		log.Warn("nothing to do: pass --db and/or --storage")
	}
	return nil
}

func readDataset(path string) ([]byte, error) {
	if path == "" {
		return reference.SampleDataset(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return data, nil
}
