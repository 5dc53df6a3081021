package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/config"
	"github.com/route-search-service/internal/domain/repository"
	"github.com/route-search-service/internal/importer"
	"github.com/route-search-service/internal/pkg/logger"
	"github.com/route-search-service/internal/repository/cache"
	"github.com/route-search-service/internal/repository/postgres"
	redisRepo "github.com/route-search-service/internal/repository/redis"
)

var rootCmd = &cobra.Command{
	Use:          "catalogue",
	Short:        "Route catalogue tool",
	Long:         "Loads operators, stations, routes and schedules into the route search database",
	SilenceUsage: true,
}

var (
	catalogueDir string
	dryRun       bool
	noPublish    bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalogue from a directory of CSV files",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&catalogueDir, "dir", "d", "", "Directory with catalogue CSV files")
	importCmd.Flags().BoolVarP(&dryRun, "dry-run", "", false, "Parse and validate only, do not write")
	importCmd.Flags().BoolVarP(&noPublish, "no-publish", "", false, "Do not publish catalogue change events")
	importCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	catalogue, err := importer.ParseDir(catalogueDir)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", catalogueDir, err)
	}

	if dryRun {
		s := importer.Summarize(catalogue)
		fmt.Printf("operators=%d stations=%d routes=%d schedules=%d schedule_times=%d pairs=%d\n",
			s.Operators, s.Stations, s.Routes, s.Schedules, s.ScheduleTimes, s.Pairs)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, "route-search-catalogue")
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	db, err := postgres.New(cfg, log)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	var streams repository.StreamRepository
	if !noPublish {
		redisClient, err := cache.NewRedis(cfg, log)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer redisClient.Close()
		streams = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := importer.New(postgres.NewCatalogueWriter(db), streams, log).Import(ctx, catalogue)
	if err != nil {
		return err
	}

	log.Info("Catalogue imported",
		zap.String("dir", catalogueDir),
		zap.Int("routes", summary.Routes),
		zap.Int("pairs", summary.Pairs),
		zap.Int("published", summary.Published))

	return nil
}
