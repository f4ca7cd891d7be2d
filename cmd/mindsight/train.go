package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tsawler/mindsight"
	"github.com/tsawler/mindsight/internal/cli"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the intent classifier from an intent catalog",
		Long: `Train a TF-IDF softmax intent classifier from the patterns of an intent
catalog and write the model artifact.

Examples:
  # Train from the configured catalog into the configured model path
  mindsight train

  # Train from a specific catalog and hold out 20% of patterns
  mindsight train --catalog intents.yaml --model ./intent.gob --validation-split 0.2`,
		RunE: runTrain,
	}

	cmd.Flags().Int("iterations", 0, "Maximum training epochs (default from training.iterations)")
	cmd.Flags().Float64("validation-split", -1, "Fraction of each intent's patterns to hold out (default from training.validation_split)")
	cmd.Flags().Bool("quiet", false, "Hide the progress bar")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	catalog, err := mindsight.LoadCatalog(catalogPath())
	if err != nil {
		return err
	}

	cfg := trainingConfig()
	cfg.Context = cmd.Context()
	if n, _ := cmd.Flags().GetInt("iterations"); n > 0 {
		cfg.Iterations = n
	}
	if split, _ := cmd.Flags().GetFloat64("validation-split"); split >= 0 {
		if split >= 1 {
			return fmt.Errorf("validation split must be below 1, got %v", split)
		}
		cfg.ValidationSplit = split
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = newProgressBar(cmd.ErrOrStderr(), cfg.Iterations)
		cfg.ProgressCallback = func(int, float64, float64) {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(modelPath()), filepath.Ext(modelPath()))
	model, err := mindsight.ModelFromData(name, mindsight.UsingIntentsAndConfig(catalog, cfg))
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if bar != nil {
		// Early stopping ends before the last epoch
		_ = bar.Finish()
	}

	if err := model.Write(modelPath()); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	report := mindsight.Evaluate(model, catalog)
	if _, err := fmt.Fprintln(out, renderTraining(model.Metrics(), report, modelPath())); err != nil {
		slog.Warn("Failed to write training summary", "error", err)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Training intent classifier...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func renderTraining(metrics mindsight.TrainingMetrics, report mindsight.EvaluationReport, path string) string {
	summary := fmt.Sprintf("  • Samples: %d\n", metrics.Samples) +
		fmt.Sprintf("  • Features: %d\n", metrics.Features) +
		fmt.Sprintf("  • Epochs: %d (converged: %v)\n", metrics.EpochsCompleted, metrics.Converged) +
		fmt.Sprintf("  • Final loss: %.4f\n", metrics.FinalLoss) +
		fmt.Sprintf("  • Training accuracy: %.2f\n", metrics.FinalAccuracy) +
		fmt.Sprintf("  • Catalog accuracy: %.2f\n", report.Accuracy)
	if v := metrics.Validation; v != nil {
		summary += fmt.Sprintf("  • Validation accuracy: %.2f over %d patterns\n", v.Accuracy, v.Samples)
	}
	summary += fmt.Sprintf("  • Time taken: %s\n", metrics.TrainingTime.Round(time.Millisecond))

	rows := make([][]string, 0, len(report.First))
	for _, s := range report.First {
		mark := cli.SuccessIcon
		if !s.Correct() {
			mark = cli.ErrorIcon
		}
		rows = append(rows, []string{s.Tag, s.Pattern, s.Predicted, fmt.Sprintf("%.2f", s.Confidence), mark})
	}
	table := cli.RenderTable([]string{"Intent", "Pattern", "Predicted", "Confidence", ""}, rows)

	return cli.RenderBox("Training Complete", summary) + "\n" +
		table + "\n" +
		cli.FormatSuccess("Model written to "+path)
}
