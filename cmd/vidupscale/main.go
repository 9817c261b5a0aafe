package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/vidupscale/pkg/config"
	"github.com/tauraamui/vidupscale/pkg/configdef"
	"github.com/tauraamui/vidupscale/pkg/journal"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/upscale"
)

const historyLimit = 10

const usage = "Usage: vidupscale setup | remove-setup | history | [flags]"

func setup() (string, error) {
	log.Info("Setting up vidupscale...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func removeSetup() (string, error) {
	log.Info("Removing setup for vidupscale...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	if err := journal.Destroy(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("unable to delete journal file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func history() (string, error) {
	j, err := journal.Connect()
	if err != nil {
		return "", err
	}
	defer j.Close()

	runs, err := j.Recent(historyLimit)
	if err != nil {
		return "", err
	}
	return renderHistory(runs), nil
}

func run(args []string) (string, error) {
	profile, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}

	cfg, err := parseFlags(args, profile, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return usage, nil
		}
		return "", err
	}

	opts := []upscale.Option{}
	if cfg.Journal {
		j, err := journal.Connect()
		if err != nil {
			return "", err
		}
		defer j.Close()
		opts = append(opts, upscale.WithJournal(j))
	}

	runner, err := upscale.New(cfg, opts...)
	if err != nil {
		return "", err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Print("\r")
			log.Error("Received signal, run %s aborted", runner.RunID())
		}
		return "", err
	}

	fmt.Println(renderSummary(summary))
	return "Upscale successful...", nil
}

func manage(args []string) (string, error) {
	if len(args) > 0 {
		switch args[0] {
		case "setup":
			return setup()
		case "remove-setup":
			return removeSetup()
		case "history":
			return history()
		case "help":
			return usage, nil
		}
	}
	return run(args)
}

func init() {
	log.SetLevel(os.Getenv("VIDUPSCALE_LOGGING_LEVEL"))
}

func main() {
	status, err := manage(os.Args[1:])
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
