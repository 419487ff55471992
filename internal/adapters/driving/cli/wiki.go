package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

var (
	contentsSection string
	contentsOffset  int
	contentsLimit   int
)

var topicsCmd = withApp(&cobra.Command{
	Use:   "topics [repo]",
	Short: "List the wiki topics of a repository",
	Long: `Lists the section titles of a repository's CodeWiki page, each with a
short preview. The repository may be a URL, owner/repo, or a keyword.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopics,
})

var structureCmd = withApp(&cobra.Command{
	Use:   "structure [repo]",
	Short: "Print the section outline of a repository's wiki as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runStructure,
})

var contentsCmd = withApp(&cobra.Command{
	Use:   "contents [repo]",
	Short: "Print a repository's wiki as markdown",
	Long: `Prints a repository's CodeWiki documentation as markdown.
With --section, prints the first section whose title contains the text.
Otherwise prints sections in order; use --offset and --limit to page.`,
	Args: cobra.ExactArgs(1),
	RunE: runContents,
})

func init() {
	contentsCmd.Flags().StringVarP(&contentsSection, "section", "s", "", "section title to read")
	contentsCmd.Flags().IntVar(&contentsOffset, "offset", 0, "index of the first section")
	contentsCmd.Flags().IntVarP(&contentsLimit, "limit", "n", 0, "maximum sections to print (0 = all)")
	rootCmd.AddCommand(topicsCmd, structureCmd, contentsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	repo, err := target(cmd, a, args[0])
	if err != nil {
		return err
	}

	text, err := a.Wiki.Topics(cmd.Context(), repo)
	if err != nil {
		return describe(err)
	}
	printText(cmd, text)
	return nil
}

func runStructure(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	repo, err := target(cmd, a, args[0])
	if err != nil {
		return err
	}

	st, err := a.Wiki.Structure(cmd.Context(), repo)
	if err != nil {
		return describe(err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal structure: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runContents(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	repo, err := target(cmd, a, args[0])
	if err != nil {
		return err
	}

	contents, err := a.Wiki.Contents(cmd.Context(), repo, domain.ContentsRequest{
		Section: contentsSection,
		Offset:  contentsOffset,
		Limit:   contentsLimit,
	})
	if err != nil {
		return describe(err)
	}
	printText(cmd, contents.Text)
	return nil
}
