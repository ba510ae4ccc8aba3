package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
	"github.com/radardiario/radar-bridge/internal/service"
)

// App holds what the radarctl commands need.
// The store is opened lazily so parse and clients work offline.
type App struct {
	Parser    *parser.Parser
	OpenStore func(ctx context.Context) (repo.DemandRepo, error)
	Now       func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) query(ctx context.Context) (*usecase.QueryUsecase, error) {
	store, err := a.OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	q := usecase.NewQueryUsecase(store, a.Parser.Location())
	q.SetClock(a.now)
	return q, nil
}

// NewRootCmd creates the top-level "radarctl" command
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "radarctl",
		Short:         "Inspect the Radar Diário parser and demand store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newParseCmd(app),
		newClientsCmd(app),
		newDigestCmd(app),
		newDemandsCmd(app),
	)
	return root
}

func newParseCmd(app *App) *cobra.Command {
	var asJSON bool
	var at string

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse a message without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			if at != "" {
				t, err := time.ParseInLocation(domain.ISODateLayout, at, app.Parser.Location())
				if err != nil {
					return fmt.Errorf("invalid --at date %q: %w", at, err)
				}
				now = t
			}

			rec := app.Parser.Parse(args[0], now)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRecord(rec))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	cmd.Flags().StringVar(&at, "at", "", "Reference date (YYYY-MM-DD) instead of today")
	return cmd
}

func newClientsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List registered clients and projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := app.Parser.Registry()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), registry.All())
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.RenderClients(registry))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the registry as JSON")
	return cmd
}

func newDigestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print the daily digest for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := app.query(cmd.Context())
			if err != nil {
				return err
			}
			d, err := usecase.NewDigestUsecase(q).Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.RenderDigest(d))
			return nil
		},
	}
}

func newDemandsCmd(app *App) *cobra.Command {
	var filterName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "demands",
		Short: "List stored demands",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := usecase.ParseDemandFilter(filterName)
			if err != nil {
				return err
			}
			q, err := app.query(cmd.Context())
			if err != nil {
				return err
			}
			demands, err := q.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if asJSON {
				if demands == nil {
					demands = []domain.Demand{}
				}
				return writeJSON(cmd.OutOrStdout(), demands)
			}
			for _, d := range demands {
				fmt.Fprintln(cmd.OutOrStdout(), formatDemandLine(d))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d demand(s)\n", len(demands))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterName, "filter", string(usecase.FilterOpen),
		"One of: open, today, no_deadline, waiting, upcoming, overdue, received_today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print demands as JSON")
	return cmd
}

func formatRecord(rec domain.ParsedRecord) string {
	deadline := "—"
	if rec.HasDeadline() {
		deadline = fmt.Sprintf("%s (%s)", rec.DeadlineDisplay, rec.DeadlineISO)
	}
	project := rec.Project
	if project == "" {
		project = "—"
	}
	return fmt.Sprintf("Resumo:     %s\nPrazo:      %s\nPrioridade: %s\nStatus:     %s\nProjeto:    %s\n",
		rec.Summary, deadline, rec.Priority, rec.Status, project)
}

func formatDemandLine(d domain.Demand) string {
	deadline := d.Record.DeadlineDisplay
	if deadline == "" {
		deadline = "—"
	}
	return fmt.Sprintf("%-10s  %-6s  %-20s  %s", deadline, d.Record.Priority, d.Record.Status, d.Record.Summary)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
