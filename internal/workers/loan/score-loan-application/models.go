package scoreloanapplication

// Input carries the raw applicant fields submitted to the process.
type Input struct {
	Application map[string]interface{} `json:"application"`
}

// Output is the scoring result merged back into the process variables.
type Output struct {
	Probability     float64  `json:"probability"`
	Decision        string   `json:"decision"`
	Recommendations []string `json:"recommendations"`
}
