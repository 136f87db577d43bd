package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/caseflow-backend/internal/app"
	"github.com/heartmarshall/caseflow-backend/internal/auth"
	"github.com/heartmarshall/caseflow-backend/internal/cascade"
	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/internal/service/trash"
	"github.com/heartmarshall/caseflow-backend/migrations"
	"github.com/heartmarshall/caseflow-backend/pkg/ctxutil"
)

var stdout io.Writer = os.Stdout

func kindFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Usage:    "entity kind: case, invoice, partner or our_company",
		Required: required,
	}
}

func idFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "id", Usage: "record ID", Required: true}
}

// loadConfig reads the config named by --config and builds the logger.
func loadConfig(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Log, "trashctl"), nil
}

// withServices connects to the database and runs fn with the services.
func withServices(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, svcs *app.Services) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svcs, err := app.NewServices(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer svcs.Close()

	return fn(ctx, svcs)
}

// actorContext attaches the --actor/--role principal to ctx.
func actorContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	raw := cmd.String("actor")
	if raw == "" {
		return nil, errors.New("--actor is required for this command")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("--actor %q is not a valid user ID", raw)
	}
	return ctxutil.WithActor(ctx, ctxutil.Actor{UserID: id, Role: cmd.String("role")}), nil
}

func parseTarget(cmd *cli.Command) (domain.EntityKind, uuid.UUID, error) {
	kind, err := domain.ParseEntityKind(cmd.String("kind"))
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(cmd.String("id"))
	if err != nil {
		return "", uuid.Nil, domain.NewValidationError("id", "must be a UUID")
	}
	return kind, id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ---------------------------------------------------------------------------
// migrate
// ---------------------------------------------------------------------------

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or inspect database migrations",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMigrations(ctx, cmd, func(ctx context.Context, p *goose.Provider) error {
						results, err := p.Up(ctx)
						if err != nil {
							return fmt.Errorf("goose up: %w", err)
						}
						applied := make([]string, len(results))
						for i, r := range results {
							applied[i] = r.Source.Path
						}
						return printJSON(map[string]any{"applied": applied})
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMigrations(ctx, cmd, func(ctx context.Context, p *goose.Provider) error {
						statuses, err := p.Status(ctx)
						if err != nil {
							return fmt.Errorf("goose status: %w", err)
						}
						type row struct {
							Version   int64      `json:"version"`
							Path      string     `json:"path"`
							State     string     `json:"state"`
							AppliedAt *time.Time `json:"appliedAt,omitempty"`
						}
						rows := make([]row, len(statuses))
						for i, s := range statuses {
							rows[i] = row{Version: s.Source.Version, Path: s.Source.Path, State: string(s.State)}
							if !s.AppliedAt.IsZero() {
								at := s.AppliedAt
								rows[i].AppliedAt = &at
							}
						}
						return printJSON(rows)
					})
				},
			},
		},
	}
}

func withMigrations(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, p *goose.Provider) error) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// goose runs on database/sql.
	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	return fn(ctx, provider)
}

// ---------------------------------------------------------------------------
// summary / list / history
// ---------------------------------------------------------------------------

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print active cases, unpaid invoices and trashed records",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := actorContext(ctx, cmd)
			if err != nil {
				return err
			}
			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				s, err := svcs.Summary.ComputeSummary(ctx)
				if err != nil {
					return err
				}
				return printJSON(map[string]int{
					"activeCases":    s.ActiveCases,
					"unpaidInvoices": s.UnpaidInvoices,
					"trashedItems":   s.TrashedItems,
				})
			})
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List trashed records, most recently trashed first",
		Flags: []cli.Flag{
			kindFlag(false),
			&cli.IntFlag{Name: "limit", Usage: "page size", Value: 50},
			&cli.IntFlag{Name: "offset", Usage: "records to skip"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := actorContext(ctx, cmd)
			if err != nil {
				return err
			}

			var kind *domain.EntityKind
			if v := cmd.String("kind"); v != "" {
				k, err := domain.ParseEntityKind(v)
				if err != nil {
					return err
				}
				kind = &k
			}

			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				page, err := svcs.Trash.ListTrash(ctx, kind, cmd.Int("limit"), cmd.Int("offset"))
				if err != nil {
					return err
				}
				views := make([]entityView, len(page.Items))
				for i, e := range page.Items {
					views[i] = toEntityView(e)
				}
				return printJSON(map[string]any{
					"items":  views,
					"total":  page.Total,
					"limit":  page.Limit,
					"offset": page.Offset,
				})
			})
		},
	}
}

type entityView struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"entityType"`
	Status    string     `json:"status,omitempty"`
	DeletedAt *time.Time `json:"deletedAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toEntityView(e domain.Entity) entityView {
	return entityView{ID: e.ID, Kind: string(e.Kind), Status: e.Status, DeletedAt: e.DeletedAt, UpdatedAt: e.UpdatedAt}
}

type auditView struct {
	Action    string         `json:"action"`
	Kind      string         `json:"entityType,omitempty"`
	EntityID  *uuid.UUID     `json:"entityId,omitempty"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
	ActorRole string         `json:"actorRole"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show the audit trail of a record (--kind, --id) or of an actor (--by)",
		Flags: []cli.Flag{
			kindFlag(false),
			&cli.StringFlag{Name: "id", Usage: "record ID"},
			&cli.StringFlag{Name: "by", Usage: "actor user ID"},
			&cli.IntFlag{Name: "limit", Usage: "maximum entries", Value: 20},
			&cli.IntFlag{Name: "offset", Usage: "entries to skip, with --by"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query, err := historyQuery(cmd)
			if err != nil {
				return err
			}
			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				records, err := query(ctx, svcs.Audit)
				if err != nil {
					return err
				}
				views := make([]auditView, len(records))
				for i, r := range records {
					views[i] = toAuditView(r)
				}
				return printJSON(views)
			})
		},
	}
}

type auditReader interface {
	GetByEntity(ctx context.Context, kind domain.EntityKind, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	GetByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error)
}

// historyQuery picks the audit lookup from the flags: --by selects an
// actor's trail, otherwise --kind and --id select a record's.
func historyQuery(cmd *cli.Command) (func(context.Context, auditReader) ([]domain.AuditRecord, error), error) {
	limit, offset := cmd.Int("limit"), cmd.Int("offset")

	if raw := cmd.String("by"); raw != "" {
		if cmd.String("kind") != "" || cmd.String("id") != "" {
			return nil, errors.New("--by cannot be combined with --kind or --id")
		}
		actorID, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.NewValidationError("by", "must be a UUID")
		}
		return func(ctx context.Context, r auditReader) ([]domain.AuditRecord, error) {
			return r.GetByActor(ctx, actorID, limit, offset)
		}, nil
	}

	if cmd.String("kind") == "" || cmd.String("id") == "" {
		return nil, errors.New("history needs --kind and --id, or --by")
	}
	kind, id, err := parseTarget(cmd)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, r auditReader) ([]domain.AuditRecord, error) {
		return r.GetByEntity(ctx, kind, id, limit)
	}, nil
}

func toAuditView(r domain.AuditRecord) auditView {
	return auditView{
		Action:    r.Action.String(),
		EntityID:  r.EntityID,
		Kind:      r.EntityKind.String(),
		ActorID:   r.ActorID,
		ActorRole: r.ActorRole.String(),
		Changes:   r.Changes,
		CreatedAt: r.CreatedAt,
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a record, trashed or not",
		Flags: []cli.Flag{kindFlag(true), idFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind, id, err := parseTarget(cmd)
			if err != nil {
				return err
			}
			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				e, err := svcs.Entities.Find(ctx, kind, id)
				if err != nil {
					return err
				}
				return printJSON(toEntityView(*e))
			})
		},
	}
}

// ---------------------------------------------------------------------------
// plan
// ---------------------------------------------------------------------------

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Print the tables a purge of --kind touches, in delete order",
		Flags: []cli.Flag{kindFlag(true)},
		Action: func(_ context.Context, cmd *cli.Command) error {
			kind, err := domain.ParseEntityKind(cmd.String("kind"))
			if err != nil {
				return err
			}
			tables, err := cascade.Default().Tables(kind)
			if err != nil {
				return err
			}
			order := make([]string, len(tables))
			for i, t := range tables {
				order[i] = t.String()
			}
			return printJSON(map[string]any{"entityType": kind, "deleteOrder": order})
		},
	}
}

// ---------------------------------------------------------------------------
// lifecycle
// ---------------------------------------------------------------------------

type targetAction func(ctx context.Context, svc *trash.Service, kind domain.EntityKind, id uuid.UUID) (any, error)

func targetCommand(name, usage string, action targetAction) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{kindFlag(true), idFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := actorContext(ctx, cmd)
			if err != nil {
				return err
			}
			kind, id, err := parseTarget(cmd)
			if err != nil {
				return err
			}
			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				out, err := action(ctx, svcs.Trash, kind, id)
				if err != nil {
					return err
				}
				return printJSON(out)
			})
		},
	}
}

func softDelete(ctx context.Context, svc *trash.Service, kind domain.EntityKind, id uuid.UUID) (any, error) {
	e, err := svc.SoftDelete(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return toEntityView(*e), nil
}

func restore(ctx context.Context, svc *trash.Service, kind domain.EntityKind, id uuid.UUID) (any, error) {
	e, err := svc.Restore(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return toEntityView(*e), nil
}

func purge(ctx context.Context, svc *trash.Service, kind domain.EntityKind, id uuid.UUID) (any, error) {
	res, err := svc.PurgeOne(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": res.Deleted}, nil
}

func emptyCommand() *cli.Command {
	return &cli.Command{
		Name:  "empty",
		Usage: "Permanently remove every trashed record",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "confirm the irreversible purge"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Bool("yes") {
				return errors.New("refusing to empty the trash without --yes")
			}
			ctx, err := actorContext(ctx, cmd)
			if err != nil {
				return err
			}
			return withServices(ctx, cmd, func(ctx context.Context, svcs *app.Services) error {
				res, err := svcs.Trash.EmptyTrash(ctx)

				var partial *trash.PartialFailureError
				if errors.As(err, &partial) {
					_ = printJSON(map[string]any{"deleted": partial.Result.Deleted, "purged": partial.Result.Purged})
					return err
				}
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"deleted": res.Deleted, "purged": res.Purged, "total": res.Total()})
			})
		},
	}
}

// ---------------------------------------------------------------------------
// token
// ---------------------------------------------------------------------------

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint an HS256 access token for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "subject user ID (random if empty)"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Auth.Mode != config.AuthModeHS256 {
				return fmt.Errorf("token minting needs auth mode %q, got %q", config.AuthModeHS256, cfg.Auth.Mode)
			}

			userID := uuid.New()
			if raw := cmd.String("user"); raw != "" {
				if userID, err = uuid.Parse(raw); err != nil {
					return fmt.Errorf("--user: %w", err)
				}
			}

			mgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
			token, err := mgr.GenerateAccessToken(userID, cmd.String("role"))
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"userId": userID.String(), "accessToken": token})
		},
	}
}
