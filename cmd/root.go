// Package cmd provides the CLI commands for the ironlog application.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/adapters/notification"
	"github.com/mfontan/ironlog/internal/adapters/storage"
	"github.com/mfontan/ironlog/internal/config"
	"github.com/mfontan/ironlog/internal/ports"
	"github.com/mfontan/ironlog/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool

	// Global dependencies
	storageAdapter  ports.Storage
	templateService *services.TemplateService
	historyService  *services.HistoryService
	checkInService  *services.CheckInService
	stateService    *services.StateService
	notifier        *notification.Notifier
	appConfig       *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ironlog",
	Short: "ironlog - A workout tracker for the terminal",
	Long: `ironlog is a command-line workout tracker. Pick a workout template,
run it set by set with a rest timer between sets, and keep a history
of everything you lift.

Run "ironlog run" to start a workout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.ironlog/ironlog.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("ironlog\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backdateCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(mcpCmd)
}

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	appConfig, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		appConfig = config.DefaultConfig()
	}

	notifier = notification.New(&appConfig.Notifications)

	if dbPath == "" {
		dbPath = config.GetDBPath(appConfig)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	storageAdapter, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	owner := appConfig.Owner
	templateService = services.NewTemplateService(storageAdapter, owner)
	historyService = services.NewHistoryService(storageAdapter, owner)
	checkInService = services.NewCheckInService(storageAdapter, owner)
	stateService = services.NewStateService(storageAdapter, owner)

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if storageAdapter != nil {
		return storageAdapter.Close()
	}
	return nil
}
