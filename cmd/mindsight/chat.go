package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsawler/mindsight"
	"github.com/tsawler/mindsight/internal/cli"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively",
		Long: `Start an interactive chat. Each message is answered from the intent
catalog; elevated risk also shows support resources. Type "quit" to exit.`,
		RunE: runChat,
	}
	cmd.Flags().Bool("details", false, "Show the full analysis after each reply")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	engine, err := loadEngine()
	if err != nil {
		return err
	}
	details, _ := cmd.Flags().GetBool("details")

	return chatLoop(cmd, engine, cmd.InOrStdin(), cmd.OutOrStdout(), details)
}

func chatLoop(cmd *cobra.Command, engine *mindsight.Engine, in io.Reader, out io.Writer, details bool) error {
	fmt.Fprintln(out, cli.FormatTitle("MindSight"))
	fmt.Fprintln(out, cli.SubtleStyle.Render(`Type "quit" to exit.`))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, cli.FormatPrompt("You"))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(text, "quit") {
			fmt.Fprintln(out, "Goodbye! Take care!")
			return nil
		}
		if text == "" {
			continue
		}

		a := engine.Analyze(text)
		fmt.Fprintf(out, "%s%s\n", cli.FormatPrompt("MindSight"), chatReply(a))
		if details {
			fmt.Fprintln(out, renderAnalysis(a))
		} else if a.Resources != nil {
			fmt.Fprintln(out, renderResources(a.Resources))
		}
	}
}

const crisisReply = "I'm really concerned about what you're going through. You don't have to face this alone."

// chatReply replaces the catalog response for high risk messages.
func chatReply(a mindsight.Analysis) string {
	if a.Risk.Category == mindsight.RiskHigh {
		return crisisReply
	}
	return a.Response
}
