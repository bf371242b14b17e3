package models

// Decision labels for the binary loan outcome.
const (
	DecisionApproved    = "Approved"
	DecisionNotApproved = "Not Approved"
)

// PredictionResult is the flat prediction contract returned to callers:
// the approval probability, the decision label, and next-step
// recommendations (empty when approved).
type PredictionResult struct {
	Probability     float64  `json:"probability"`
	Decision        string   `json:"decision"`
	Recommendations []string `json:"recommendations"`
}
