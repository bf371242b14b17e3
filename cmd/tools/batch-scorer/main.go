// cmd/tools/batch-scorer/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	commonhttp "loan-approval-service/internal/common/http"
	"loan-approval-service/internal/models"
)

type predictResponse struct {
	Probability     float64  `json:"probability"`
	Decision        string   `json:"decision"`
	Recommendations []string `json:"recommendations"`
	Error           *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of a running prediction service")
	file := flag.String("file", "", "Path to a JSON array of raw applications")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: file is required.")
		flag.Usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading input: %v\n", err)
		os.Exit(1)
	}

	var applications []map[string]interface{}
	if err := json.Unmarshal(raw, &applications); err != nil {
		fmt.Printf("Error: input is not a JSON array of objects: %v\n", err)
		os.Exit(1)
	}

	client := commonhttp.NewClient(*timeout)
	endpoint := *url + "/api/v1/predict"

	var approved, rejected, failed int
	for i, app := range applications {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		var resp predictResponse
		status, err := client.PostJSON(ctx, endpoint, app, &resp)
		cancel()

		switch {
		case err != nil:
			failed++
			fmt.Printf("[%d] request failed: %v\n", i, err)
		case status != http.StatusOK:
			failed++
			if resp.Error != nil {
				fmt.Printf("[%d] HTTP %d %s: %s\n", i, status, resp.Error.Code, resp.Error.Message)
			} else {
				fmt.Printf("[%d] HTTP %d\n", i, status)
			}
		default:
			if resp.Decision == models.DecisionApproved {
				approved++
			} else {
				rejected++
			}
			fmt.Printf("[%d] %-12s probability=%.4f\n", i, resp.Decision, resp.Probability)
		}
	}

	fmt.Printf("\nScored %d applications: %d approved, %d rejected, %d failed\n",
		len(applications), approved, rejected, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
