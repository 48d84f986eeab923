package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/config"
)

func newLogger() zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false, TimeFormat: time.RFC3339}
	consoleWriter.TimeFormat = "[" + time.RFC3339 + "]"
	consoleWriter.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.LevelFieldName,
		zerolog.CallerFieldName,
		zerolog.MessageFieldName,
	}

	logger := zerolog.New(consoleWriter).
		With().Timestamp().Logger()

	level := zerolog.InfoLevel
	envLevel, ok := os.LookupEnv("LOG_LEVEL")
	if ok {
		parsed, err := zerolog.ParseLevel(envLevel)
		if err != nil {
			logger.Warn().Err(err).Msg("could not parse environment variable LOG_LEVEL")
			return logger
		}
		level = parsed
	}

	return logger.Level(level)
}

// setupLogger loads the environment files of dir before building the logger,
// so LOG_LEVEL may come from them.
func setupLogger(dir string) zerolog.Logger {
	loaded, err := config.LoadDotEnv(dir)
	logger := newLogger()
	if err != nil {
		logger.Warn().Err(err).Msg("could not load environment files")
	} else if len(loaded) > 0 {
		logger.Debug().Strs("files", loaded).Msg("loaded environment files")
	}
	return logger
}

func main() {
	args := Command{}
	cli := kong.Parse(&args,
		kong.Name("pinpack"),
		kong.Description("Pinball table package builder"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignals(cancel)

	logger := setupLogger(".")

	var err error
	command := cli.Command()
	switch command {
	case "version":
		printVersion()
	case "build":
		err = buildCommand(ctx, args, logger)
	case "preview":
		err = previewCommand(args, os.Stdout, logger)
	case "inspect":
		err = inspectCommand(ctx, args, os.Stdout)
	case "install":
		err = installCommand(ctx, args, logger)
	case "templates":
		err = templatesCommand(args, os.Stdout, logger)
	case "settings export":
		err = settingsExportCommand(args, os.Stdout, logger)
	case "settings check":
		err = settingsCheckCommand(args, os.Stdout)
	case "project create":
		err = projectCreateCommand(ctx, args, os.Stdout, logger)
	case "project list":
		err = projectListCommand(ctx, args, os.Stdout, logger)
	case "project show":
		err = projectShowCommand(ctx, args, os.Stdout, logger)
	case "project update":
		err = projectUpdateCommand(ctx, args, logger)
	case "project delete":
		err = projectDeleteCommand(ctx, args, logger)
	case "packages list":
		err = packagesListCommand(ctx, args, os.Stdout, logger)
	case "packages clean":
		err = packagesCleanCommand(ctx, args, logger)
	case "daemon":
		err = daemonCommand(ctx, args, logger)
	default:
		panic(command)
	}
	if err != nil {
		logger.Error().Err(err).Msg(command + " error")
		cli.Exit(1)
	}
}

func setupSignals(onSignal func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		onSignal()
	}()
}
