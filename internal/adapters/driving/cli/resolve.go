package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

var resolveCmd = withApp(&cobra.Command{
	Use:   "resolve [keyword]",
	Short: "Resolve a keyword to a repository",
	Long: `Searches CodeWiki, then GitHub, for repositories matching a bare keyword
and prints the one a tool call would use. When several match and the
terminal is interactive, a picker is shown; --no-interactive skips it.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
})

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	res, err := a.Resolver.Resolve(cmd.Context(), args[0], chooser())
	if err != nil {
		return describe(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Selected)
	fmt.Fprintf(out, "  rule: %s, source: %s\n", res.Rule, res.Source)
	if len(res.Candidates) > 1 {
		fmt.Fprintln(out, "  candidates:")
		for _, c := range res.Candidates {
			marker := " "
			if c.FullName() == res.Selected {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %-40s %8s★\n", marker, c.FullName(), domain.FormatStars(c.Stars))
		}
	}
	return nil
}
