package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Fastpacer/jobcraft/internal/logger"
	"github.com/Fastpacer/jobcraft/internal/tracker"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List tracked applications",
	Run: func(_ *cobra.Command, _ []string) {
		listApplications()
	},
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
}

func listApplications() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	storagePath := defaultStoragePath
	if config != nil && config.Storage != nil && config.Storage.Path != "" {
		storagePath = config.Storage.Path
	}

	store, err := tracker.OpenSQLite(ctx, storagePath)
	if err != nil {
		logger.Fatal("opening application store", zap.Error(err))
	}
	defer store.Close()

	apps, err := store.List(ctx)
	if err != nil {
		logger.Fatal("listing applications", zap.Error(err))
	}

	if len(apps) == 0 {
		logger.Info("no tracked applications yet")
		return
	}

	pretty, _ := json.MarshalIndent(apps, "", "  ")
	fmt.Println(string(pretty))

	logger.Info("tracked applications", zap.Int("count", len(apps)))
}
