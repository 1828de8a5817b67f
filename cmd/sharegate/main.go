package main

import (
	"flag"
	"fmt"
	"os"

	"sharegate/internal/audit"
	"sharegate/internal/config"
	"sharegate/internal/constants"
	"sharegate/internal/database"
	"sharegate/internal/logger"
	"sharegate/internal/server"
	"sharegate/internal/version"
)

func main() {
	// 0. Flags
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (defaults to ~/"+constants.ConfigDir+"/config.yaml)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("%s %s\n", constants.AppDisplayName, version.Version)
		os.Exit(0)
	}

	// 1. Initialize debug logger
	log := logger.NewLogger(constants.DefaultLogLevel)
	log.Info("%s version %s starting", constants.AppDisplayName, version.Version)

	// 2. Load or create config
	log.Info("Loading configuration...")
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFromPath(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.LogLevel)
	cfg.LogEffectiveValues(log)

	// 3. Initialize the data directory and ledger database
	if err := config.InitializeDataDirectory(cfg.DataDirectory); err != nil {
		log.Error("Failed to initialize data directory: %v", err)
		os.Exit(1)
	}

	db, err := database.InitLedgerDB(config.LedgerDBPath(cfg.DataDirectory))
	if err != nil {
		log.Error("Failed to open ledger database: %v", err)
		os.Exit(1)
	}

	// 4. Enable file logging now that the data directory exists
	if err := log.SetDataDir(cfg.DataDirectory); err != nil {
		log.Warn("Failed to enable file logging: %v", err)
	} else {
		log.Info("File logging enabled in %s", cfg.DataDirectory)
	}

	// 5. Create application instance
	app := server.NewApp(cfg, log, db)
	app.AuditLogger = audit.NewLogger(db, cfg.Audit.MaxLogSizeBytes, cfg.Audit.PurgePercentage)
	log.Debug("Audit logger initialized")

	// 6. Start HTTP server
	port := cfg.Port
	if port == 0 {
		port = constants.DefaultPort
	}

	addr := fmt.Sprintf(":%d", port)
	srv := server.NewServer(app, addr)

	log.Info("Starting %s server on port %d", constants.AppDisplayName, port)
	if err := srv.Start(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}
