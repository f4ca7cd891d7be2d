package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsawler/mindsight"
	"github.com/tsawler/mindsight/internal/cli"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [message]",
		Short: "Analyze one message or a file of messages",
		Long: `Classify the intent of each message and report its sentiment, emotions,
risk level, recommended exercises and support resources.

Examples:
  # Analyze a single message
  mindsight analyze "I have been feeling really anxious lately"

  # Analyze one message per line, eight at a time, as JSON lines
  mindsight analyze --file messages.txt --workers 8 --json`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("file", "", "File with one message per line (- for stdin)")
	cmd.Flags().Int("workers", runtime.NumCPU(), "Messages analyzed concurrently")
	cmd.Flags().Bool("json", false, "Write results as JSON lines")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	workers, _ := cmd.Flags().GetInt("workers")
	asJSON, _ := cmd.Flags().GetBool("json")

	var texts []string
	switch {
	case file != "":
		lines, err := readMessages(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		texts = lines
	case len(args) > 0:
		texts = []string{strings.Join(args, " ")}
	default:
		return errors.New("provide a message or --file")
	}

	engine, err := loadEngine()
	if err != nil {
		return err
	}

	results, err := engine.AnalyzeBatch(cmd.Context(), texts, workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, results)
	}
	for _, a := range results {
		if _, err := fmt.Fprintln(out, renderAnalysis(a)); err != nil {
			return err
		}
	}
	return nil
}

// readMessages returns the non-blank lines of path, or of stdin for "-".
func readMessages(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open messages: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return lines, nil
}

func writeJSON(w io.Writer, results []mindsight.Analysis) error {
	enc := json.NewEncoder(w)
	for _, a := range results {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
	}
	return nil
}

func renderAnalysis(a mindsight.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render("Message:"), a.Text)
	fmt.Fprintf(&b, "%s %s (%.2f)\n", cli.BoldStyle.Render("Intent:"), a.Intent.Tag, a.Intent.Confidence)
	fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render("Response:"), a.Response)
	fmt.Fprintf(&b, "%s polarity %.2f, subjectivity %.2f\n", cli.BoldStyle.Render("Sentiment:"), a.Polarity, a.Subjectivity)
	fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render("Emotion:"), a.DominantEmotion)
	fmt.Fprintf(&b, "%s %s", cli.BoldStyle.Render("Risk:"), cli.FormatRisk(a.Risk.Level, string(a.Risk.Category)))
	if len(a.Risk.Factors.KeywordsFound) > 0 {
		fmt.Fprintf(&b, "\n  %s", cli.SubtleStyle.Render("keywords: "+strings.Join(a.Risk.Factors.KeywordsFound, ", ")))
	}
	if a.Risk.Factors.HasUrgency() {
		fmt.Fprintf(&b, "\n  %s", cli.SubtleStyle.Render("urgency: "+strings.Join(a.Risk.Factors.UrgencyIndicators, ", ")))
	}

	if len(a.Recommendations) > 0 {
		b.WriteString("\n" + cli.BoldStyle.Render("Try:"))
		for _, r := range a.Recommendations {
			fmt.Fprintf(&b, "\n  %s %s (%d min) %s", r.Icon, r.Title, r.DurationMinutes, cli.SubtleStyle.Render(r.Reason))
		}
	}
	if a.Degraded {
		b.WriteString("\n" + cli.FormatWarning(fmt.Sprintf("%d analysis stage(s) failed", len(a.Errors))))
	}

	out := cli.RenderBox(cli.ChartIcon+" Analysis", b.String())
	if a.Resources != nil {
		out += "\n" + renderResources(a.Resources)
	}
	return out
}

func renderResources(bundle *mindsight.ResourceBundle) string {
	var b strings.Builder
	b.WriteString(bundle.Message)
	for _, r := range bundle.Resources {
		fmt.Fprintf(&b, "\n  • %s: %s (%s)", r.Name, r.Number, r.Available)
	}
	for _, advice := range bundle.AdditionalAdvice {
		fmt.Fprintf(&b, "\n  %s", advice)
	}
	if bundle.Emergency {
		return cli.RenderAlert(cli.WarningIcon+" Support", b.String())
	}
	return cli.RenderBox("Support", b.String())
}
