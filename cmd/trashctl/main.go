// Command trashctl is the operator tool for the trash lifecycle. It runs
// migrations and performs the same soft delete, restore, purge and empty
// operations as the HTTP API, acting as the user given by --actor.
//
// Usage:
//
//	trashctl migrate up|status
//	trashctl summary
//	trashctl list [--kind case] [--limit 50 --offset 0]
//	trashctl show|delete|restore|purge --kind case --id <uuid>
//	trashctl plan --kind case
//	trashctl empty --yes
//	trashctl history --kind case --id <uuid> | --by <uuid>
//	trashctl token --user <uuid> --role manager
//
// Results are printed to stdout as JSON; logs go to stderr.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/caseflow-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("trashctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "trashctl",
		Usage:   "Operate the caseflow trash from the command line",
		Version: app.BuildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file (default ./config.yaml if present)",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "actor",
				Usage:   "user ID recorded as the actor of lifecycle operations",
				Sources: cli.EnvVars("TRASHCTL_ACTOR"),
			},
			&cli.StringFlag{
				Name:    "role",
				Usage:   "role of the actor; emptying the trash requires a purge role",
				Value:   "manager",
				Sources: cli.EnvVars("TRASHCTL_ROLE"),
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			summaryCommand(),
			listCommand(),
			showCommand(),
			targetCommand("delete", "Move a record to the trash", softDelete),
			targetCommand("restore", "Restore a trashed record", restore),
			targetCommand("purge", "Permanently remove a trashed record and its dependents", purge),
			planCommand(),
			emptyCommand(),
			historyCommand(),
			tokenCommand(),
		},
	}
}
