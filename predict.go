package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"sepsisapi/config"
	"sepsisapi/ml"
	"sepsisapi/prediction"
)

func newPredictCmd(cfg *config.Config) *cobra.Command {
	var (
		features     ml.PatientFeatures
		artifactsDir string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a single prediction offline and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if artifactsDir != "" {
				cfg.Artifacts.Dir = artifactsDir
			}
			result := ml.LoadArtifacts(cfg.Artifacts)

			var out interface{}
			res, err := prediction.NewPredictor(result.Artifacts()).Predict(cmd.Context(), features)
			switch {
			case eris.Is(err, prediction.ErrModelNotFitted):
				out = map[string]string{"error": prediction.NotFittedMessage}
			case err != nil:
				return eris.Wrap(err, "predict")
			default:
				out = res
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&features.PRG, "PRG", 0, "plasma glucose")
	flags.Float64Var(&features.PL, "PL", 0, "blood work result 1")
	flags.Float64Var(&features.PR, "PR", 0, "blood pressure")
	flags.Float64Var(&features.SK, "SK", 0, "blood work result 2")
	flags.Float64Var(&features.TS, "TS", 0, "blood work result 3")
	flags.Float64Var(&features.M11, "M11", 0, "body mass index")
	flags.Float64Var(&features.BD2, "BD2", 0, "blood work result 4")
	flags.Float64Var(&features.Age, "Age", 0, "patient age in years")
	flags.IntVar(&features.Insurance, "Insurance", 0, "1 if the patient holds a valid insurance card")
	for _, name := range ml.FeatureNames() {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	flags.StringVar(&artifactsDir, "artifacts-dir", "", "artifact directory (default from config)")
	return cmd
}
