package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/VladislavRudakoff/PromptTool/internal/config"
	"github.com/VladislavRudakoff/PromptTool/internal/engine"
	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"github.com/VladislavRudakoff/PromptTool/internal/providers/prompts"
	"github.com/VladislavRudakoff/PromptTool/internal/providers/settings"
	"github.com/VladislavRudakoff/PromptTool/internal/providers/window"
	"github.com/VladislavRudakoff/PromptTool/internal/service"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config-dir", "", "Settings directory (default: platform user config dir)")
	logLevel := flag.String("log-level", "", "Log level override")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load environment config: %v", err)
	}
	if *configDir != "" {
		env.ConfigDir = *configDir
	}
	if *logLevel != "" {
		env.LogLevel = *logLevel
	}
	if *dev {
		env.LogDev = true
	}

	logger, err := logging.New(logging.Config{
		Level:       env.LogLevel,
		Development: env.LogDev,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	dir, err := env.ResolveConfigDir()
	if err != nil {
		logger.Fatal("failed to resolve config dir", zap.Error(err))
	}

	eng, err := engine.New(engine.Options{
		ConfigDir: dir,
		Env:       env,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to start engine", zap.Error(err))
	}
	defer eng.Close()

	registry := service.NewRegistry()
	for _, p := range []service.Provider{
		settings.NewProvider(eng),
		prompts.NewProvider(eng),
		window.NewProvider(eng),
	} {
		if err := registry.Register(p); err != nil {
			logger.Fatal("failed to register provider", zap.Error(err))
		}
	}

	logger.Info("engine running; waiting for presentation host",
		zap.Int("services", len(registry.List())))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
}
