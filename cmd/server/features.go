package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/model"
)

func featuresCmd() *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the columns the model expects and check them against the encoder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelPath == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				modelPath = cfg.ModelPath
			}
			p, err := model.LoadPipeline(modelPath)
			if err != nil {
				return err
			}
			return printFeatures(cmd, p.FeatureNamesIn)
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "pipeline artifact (defaults to MODEL_PATH)")
	return cmd
}

func printFeatures(cmd *cobra.Command, expected []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model expects %d columns:\n", len(expected))
	for i, c := range expected {
		fmt.Fprintf(out, "%02d: %s\n", i+1, c)
	}

	diffs := model.SchemaMismatch(expected)
	if len(diffs) == 0 {
		fmt.Fprintf(out, "Encoder produces the same %d columns in the same order.\n", len(assessment.FeatureColumns))
		return nil
	}
	fmt.Fprintln(out, "Mismatch with the encoder:")
	for _, d := range diffs {
		fmt.Fprintf(out, "  - %s\n", d)
	}
	return fmt.Errorf("model schema differs from the encoder in %d place(s)", len(diffs))
}
