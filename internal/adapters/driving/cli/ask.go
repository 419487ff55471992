package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = withApp(&cobra.Command{
	Use:   "ask [repo] [question]",
	Short: "Ask CodeWiki's chat about a repository",
	Long: `Asks the Gemini-powered chat on a repository's CodeWiki page and prints
the answer. Words after the repository are joined into one question.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
})

var requestIndexCmd = withApp(&cobra.Command{
	Use:   "request-index [repo]",
	Short: "Ask CodeWiki to index a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestIndex,
})

func init() {
	rootCmd.AddCommand(askCmd, requestIndexCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	repo, err := target(cmd, a, args[0])
	if err != nil {
		return err
	}

	answer, err := a.Chat.Ask(cmd.Context(), repo, strings.Join(args[1:], " "))
	if err != nil {
		return describe(err)
	}
	printText(cmd, answer.Text)
	if answer.Attempt > 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "(answered on attempt %d of %d)\n", answer.Attempt, answer.MaxAttempts)
	}
	return nil
}

func runRequestIndex(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	repo, err := target(cmd, a, args[0])
	if err != nil {
		return err
	}

	res, err := a.Indexing.RequestIndexing(cmd.Context(), repo)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
