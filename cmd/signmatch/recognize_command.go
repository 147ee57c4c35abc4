package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/signmatch/genai"
)

func newRecognizeCommand(ctx *commandContext) *cobra.Command {
	var (
		featuresFlag string
		imageFlag    string
		textFlag     string
		labelsFlag   []string
	)

	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "Run one recognition call",
		Long: `Run one recognition call against the current reference set.

Features are a comma-separated vector of values in [0,1], e.g.
"0.8,0.9,0.7,0.85,0.92". When the local match is inconclusive the
external service is called with the given image and/or text payload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := parseFeatures(featuresFlag)
			if err != nil {
				return err
			}

			payload := genai.Payload{Text: textFlag}
			if imageFlag != "" {
				img, err := os.ReadFile(imageFlag)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				payload.Image = img
			}

			r, err := ctx.recognizer(cmd.Context())
			if err != nil {
				return err
			}

			result := r.RecognizeIn(cmd.Context(), features, payload, labelsFlag...)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Text          string  `json:"text"`
				Confidence    float32 `json:"confidence"`
				Source        string  `json:"source"`
				LowConfidence bool    `json:"low_confidence"`
			}{
				Text:          result.Text,
				Confidence:    result.Confidence,
				Source:        result.Source.String(),
				LowConfidence: result.LowConfidence,
			})
		},
	}

	cmd.Flags().StringVarP(&featuresFlag, "features", "f", "", "Comma-separated feature vector (required)")
	cmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Image file for the fallback payload")
	cmd.Flags().StringVarP(&textFlag, "text", "t", "", "Text description for the fallback payload")
	cmd.Flags().StringSliceVarP(&labelsFlag, "labels", "l", nil, "Restrict recognition to these labels")
	_ = cmd.MarkFlagRequired("features")

	return cmd
}

func parseFeatures(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	features := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid feature %q: %w", p, err)
		}
		features = append(features, float32(v))
	}
	return features, nil
}
