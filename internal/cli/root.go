// Package cli implements tagsctl, the command line for inspecting and
// editing widgets in the configured store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/widget"
)

// WidgetServicer is the subset of the widget service the commands drive.
type WidgetServicer interface {
	Create(ctx context.Context) (domain.WidgetState, error)
	List(ctx context.Context, p domain.PaginationParams) ([]string, int64, error)
	State(ctx context.Context, id string) (domain.WidgetState, error)
	Export(ctx context.Context, id string) ([]domain.Entry, error)
	Submit(ctx context.Context, id, draft string, surf widget.Surface) (domain.WidgetState, error)
	SetTags(ctx context.Context, id string, values []string, surf widget.Surface) (domain.WidgetState, error)
	DeleteTag(ctx context.Context, id string, entryID int, surf widget.Surface) (domain.WidgetState, error)
	SetReadOnly(ctx context.Context, id string, readOnly bool, surf widget.Surface) (domain.WidgetState, error)
	Reset(ctx context.Context, id string) error
}

// App carries the service and the global flags to every command.
type App struct {
	Widgets    WidgetServicer
	PrettyJSON bool
}

// NewRootCmd builds the tagsctl command tree around svc.
func NewRootCmd(svc WidgetServicer) *cobra.Command {
	app := &App{Widgets: svc}

	cmd := &cobra.Command{
		Use:          "tagsctl",
		Short:        "Inspect and edit tags widgets",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # List widgets found in the store
  tagsctl list

  # Add a tag the same way the widget's form does
  tagsctl add tags-demo golang

  # Lock a widget
  tagsctl read-only tags-demo on
`),
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newReadOnlyCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newResetCmd(app))

	return cmd
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
