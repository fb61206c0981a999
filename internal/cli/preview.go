package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/gateway"
	"github.com/maajidpp/linkza/pkg/layout"
)

// previewCommand renders a profile's tile grid in the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		serverURL string
		username  string
		token     string
		edit      bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a profile's tile grid in the terminal",
		Long: `Fetch a layout from a linkza server and render it as a tile grid.

With --username the public profile is shown read-only. With --token the
authenticated owner's layout is fetched instead, and --edit switches to an
interactive mode where tiles can be reordered and resized from the
keyboard; every change is saved back through the API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), serverURL, username, token, edit)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "linkza server base URL")
	cmd.Flags().StringVar(&username, "username", "", "public profile to preview")
	cmd.Flags().StringVar(&token, "token", "", "access token for the owner's layout")
	cmd.Flags().BoolVar(&edit, "edit", false, "edit the layout interactively (requires --token)")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, serverURL, username, token string, edit bool) error {
	logger := c.Logger

	if username == "" && token == "" {
		return errors.New(errors.ErrCodeInvalidInput, "either --username or --token is required")
	}
	if edit && token == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--edit requires --token")
	}
	if edit && username != "" {
		// Viewing someone else's profile is always read-only.
		return errors.New(errors.ErrCodeForbidden, "--edit cannot be combined with --username")
	}

	gw := gateway.New(serverURL, gateway.WithToken(token))
	store := layout.NewStore(gw, logger)

	logger.Debug("fetching layout", "server", serverURL, "username", username)
	if err := store.Fetch(ctx, username); err != nil {
		return err
	}
	store.SetEditMode(edit)

	if !edit {
		fmt.Println(renderGrid(store.Tiles(), -1, ""))
		return nil
	}

	model := newPreviewModel(store)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run preview")
	}

	// Let any coalesced save finish before the process exits.
	store.Flush()
	return nil
}
