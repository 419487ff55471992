package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/tui"
	"github.com/cloudmeru/codewiki-mcp/internal/app"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

var noInteractive bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&noInteractive, "no-interactive", false,
		"never prompt when a keyword matches several repositories")
}

// chooser returns the terminal picker, or nil when nobody can answer it.
func chooser() driven.Chooser {
	if noInteractive || !tui.IsInteractive(os.Stdin, os.Stderr) {
		return nil
	}
	return tui.NewPicker(os.Stdin, os.Stderr)
}

// target resolves raw and reports a keyword resolution on stderr.
func target(cmd *cobra.Command, a *app.App, raw string) (domain.RepoRef, error) {
	repo, res, err := a.Resolver.ResolveRepo(cmd.Context(), raw, chooser())
	if err != nil {
		return domain.RepoRef{}, describe(err)
	}
	if res != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Note())
	}
	return repo, nil
}

// describe prefixes err with its taxonomy code.
func describe(err error) error {
	return fmt.Errorf("%s: %w", domain.CodeOf(err), err)
}

// printText writes body to stdout and flags truncation on stderr.
func printText(cmd *cobra.Command, t domain.Text) {
	fmt.Fprintln(cmd.OutOrStdout(), t.Body)
	if t.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), "(output truncated)")
	}
}
