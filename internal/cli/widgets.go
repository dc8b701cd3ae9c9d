package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/export"
	"github.com/pkordes/tags-widget/internal/surface"
)

func newCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a widget with a generated id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Widgets.Create(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List widget ids found in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.NewPaginationParams(&page, &limit)
			ids, total, err := app.Widgets.List(cmd.Context(), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": ids,
				"pagination": map[string]any{
					"page":  p.Page,
					"limit": p.Limit,
					"total": total,
				},
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 20, "Widgets per page (max 100)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <widget-id>",
		Short: "Show a widget's tags and read-only flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Widgets.State(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <widget-id> <tag>",
		Short: "Submit a tag (trimmed, escaped, 1-19 characters)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Widgets.Submit(cmd.Context(), args[0], args[1], surface.Discard)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <widget-id> [tag...]",
		Short: "Replace every tag; no tags clears the widget",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Widgets.SetTags(cmd.Context(), args[0], args[1:], surface.Discard)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <widget-id> <entry-id>",
		Short: "Delete every tag carrying entry-id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("entry id must be an integer: %q", args[1]))
			}
			st, err := app.Widgets.DeleteTag(cmd.Context(), args[0], entryID, surface.Discard)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newReadOnlyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "read-only <widget-id> <on|off>",
		Short:     "Lock or unlock a widget",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			readOnly, err := parseSwitch(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := app.Widgets.SetReadOnly(cmd.Context(), args[0], readOnly, surface.Discard)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, st)
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <widget-id>",
		Short: "Export a widget's entries as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return writeErr(cmd, fmt.Errorf("--format must be csv or json, got %q", format))
			}
			entries, err := app.Widgets.Export(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if format == "json" {
				if entries == nil {
					entries = []domain.Entry{}
				}
				return writeOut(cmd, app, entries)
			}
			if err := export.WriteCSV(cmd.OutOrStdout(), entries); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv|json)")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <widget-id>",
		Short: "Forget everything stored for a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Widgets.Reset(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "reset": true}})
		},
	}
}

// parseSwitch accepts on/off, true/false, yes/no and 1/0.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
