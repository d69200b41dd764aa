package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/bed"
)

func newCompareBedFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare-bedfiles <file1> <file2>",
		Short: "Compare two BED files and report entries unique to each",
		Long: `Compare the data rows of two BED files, ignoring headers and comments,
and write a report of the entries present in only one of them.`,
		Example: `  panelbed compare-bedfiles bed_files/R207_v1.0_GRCh38.bed bed_files/R207_v4.0_GRCh38.bed`,
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompareBedFiles(args[0], args[1])
		},
	}
	return cmd
}

func runCompareBedFiles(file1, file2 string) error {
	for _, f := range []string{file1, file2} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("bed_file: %s does not exist", f)
		}
	}

	reportPath, err := bed.CompareFiles(file1, file2, viper.GetString("comparison_dir"))
	if err != nil {
		return err
	}
	logger.Debug("comparison written", zap.String("report", reportPath))

	fmt.Printf("Comparison complete. Differences saved in %s\n", reportPath)
	return nil
}
