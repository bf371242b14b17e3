// cmd/tools/artifact-inspector/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/prediction"
)

func main() {
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	inspectPath := inspectCmd.String("path", "models/loan_approval_model.json", "Path to the scoring artifact")

	scoreCmd := flag.NewFlagSet("score", flag.ExitOnError)
	scorePath := scoreCmd.String("path", "models/loan_approval_model.json", "Path to the scoring artifact")
	scoreInput := scoreCmd.String("input", "", "Path to a JSON file with one raw application")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "inspect":
		inspectCmd.Parse(os.Args[2:])
		if err := inspect(*inspectPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "score":
		scoreCmd.Parse(os.Args[2:])
		if *scoreInput == "" {
			fmt.Println("Error: input is required for score.")
			scoreCmd.Usage()
			os.Exit(1)
		}
		if err := scoreOne(*scorePath, *scoreInput); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	default:
		help()
		os.Exit(1)
	}
}

// inspect validates the artifact the same way the service does at load time
// and prints what the model will use for scoring.
func inspect(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	pipeline, err := gateway.NewPipeline(raw)
	if err != nil {
		return fmt.Errorf("artifact is not loadable: %w", err)
	}

	info := pipeline.Model()
	fmt.Printf("Artifact: %s\n", path)
	fmt.Printf("Model:    %s %s (trained %s)\n", info.Name, info.Version, info.TrainedAt)
	fmt.Printf("Classes:  %v (positive: %s)\n\n", info.Classes, info.PositiveClass)

	var manifest gateway.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return err
	}

	numericNames := make([]string, 0, len(manifest.Numeric))
	for name := range manifest.Numeric {
		numericNames = append(numericNames, name)
	}
	sort.Strings(numericNames)

	fmt.Println("Numeric features:")
	for _, name := range numericNames {
		f := manifest.Numeric[name]
		fmt.Printf("  %-20s mean=%-10.4f std=%-10.4f weight=%.6f\n", name, f.Mean, f.Std, f.Weight)
	}

	categoricalNames := make([]string, 0, len(manifest.Categorical))
	for name := range manifest.Categorical {
		categoricalNames = append(categoricalNames, name)
	}
	sort.Strings(categoricalNames)

	fmt.Println("\nCategorical features:")
	for _, name := range categoricalNames {
		levels := make([]string, 0, len(manifest.Categorical[name].Levels))
		for level := range manifest.Categorical[name].Levels {
			levels = append(levels, level)
		}
		sort.Strings(levels)

		fmt.Printf("  %-20s levels=%d\n", name, len(levels))
		for _, level := range levels {
			fmt.Printf("    %-18s weight=%.6f\n", level, manifest.Categorical[name].Levels[level])
		}
	}

	if entries := pipeline.Importance(); len(entries) > 0 {
		fmt.Println("\nFeature importance:")
		for _, e := range entries {
			fmt.Printf("  %-20s %.4f\n", e.Feature, e.Weight)
		}
	}

	if manifest.InputSchema != nil {
		fmt.Println("\nInput schema: present (inputs are validated before scoring)")
	} else {
		fmt.Println("\nInput schema: absent")
	}
	return nil
}

// scoreOne runs the full prediction path offline, exactly as the service
// would for an API request.
func scoreOne(artifactPath, inputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	var application map[string]interface{}
	if err := json.Unmarshal(raw, &application); err != nil {
		return fmt.Errorf("input is not a JSON object: %w", err)
	}

	log := logger.NewNoOpLogger()
	svc := prediction.NewService(gateway.New(artifactPath, log), log)

	result, err := svc.Predict(context.Background(), application)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeValidation) {
			fmt.Println("Application rejected by validation:")
			for _, fe := range errors.FieldErrors(err) {
				fmt.Printf("  %-20s %s: %s\n", fe.Field, fe.Code, fe.Message)
			}
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("Probability:     %.6f\n", result.Probability)
	fmt.Printf("Decision:        %s\n", result.Decision)
	if len(result.Recommendations) == 0 {
		fmt.Println("Recommendations: none")
	} else {
		fmt.Println("Recommendations:")
		for _, r := range result.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	return nil
}

func help() {
	fmt.Println("Usage: artifact-inspector <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  inspect  Validate an artifact and print its contents")
	fmt.Println("  score    Score one application file against an artifact")
	fmt.Println()
	fmt.Println("Run 'artifact-inspector <command> -h' for command flags.")
}
