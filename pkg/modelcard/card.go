// Package modelcard carries the human-facing documentation of the loan
// approval model: variable descriptions, importance figures, and the usage
// guide. The built-in card ships with the service; deployments can override
// it with a JSON file.
package modelcard

// Impact levels used in the variable catalog.
const (
	ImpactLow      = "Low"
	ImpactMedium   = "Medium"
	ImpactHigh     = "High"
	ImpactVeryHigh = "Very high"
)

type Card struct {
	Variables      []VariableDoc     `json:"variables"`
	Importance     []ImportanceEntry `json:"importance"`
	Interpretation []string          `json:"interpretation"`
	Guide          Guide             `json:"guide"`
	Disclaimer     string            `json:"disclaimer"`
}

// VariableDoc documents one request field: what it means, the values the
// service accepts, and how strongly it moves the decision.
type VariableDoc struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Impact      string      `json:"impact"`
	Values      []string    `json:"values,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// ImportanceEntry is one bar of the importance chart. The built-in card
// carries illustrative figures for when the artifact reports none.
type ImportanceEntry struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

type Guide struct {
	Steps        []string `json:"steps"`
	DecisionRule string   `json:"decision_rule"`
	KeyFactors   []string `json:"key_factors"`
}

// DefaultCard returns the documentation shipped with the service.
func DefaultCard() *Card {
	return &Card{
		Variables: []VariableDoc{
			{
				Name:        "gender",
				Type:        "categorical",
				Description: "Applicant gender",
				Impact:      ImpactLow,
				Values:      []string{"Male", "Female"},
			},
			{
				Name:        "married",
				Type:        "categorical",
				Description: "Marital status",
				Impact:      ImpactMedium,
				Values:      []string{"Yes", "No"},
			},
			{
				Name:        "dependents",
				Type:        "categorical",
				Description: "Number of dependents",
				Impact:      ImpactMedium,
				Values:      []string{"0", "1", "2", "3+"},
			},
			{
				Name:        "education",
				Type:        "categorical",
				Description: "Education level",
				Impact:      ImpactMedium,
				Values:      []string{"Graduate", "Not Graduate"},
			},
			{
				Name:        "self_employed",
				Type:        "categorical",
				Description: "Self-employment status",
				Impact:      ImpactMedium,
				Values:      []string{"Yes", "No"},
			},
			{
				Name:        "applicant_income",
				Type:        "numeric",
				Description: "Applicant monthly income",
				Impact:      ImpactHigh,
				Default:     5000,
			},
			{
				Name:        "coapplicant_income",
				Type:        "numeric",
				Description: "Co-applicant monthly income",
				Impact:      ImpactHigh,
				Default:     0,
			},
			{
				Name:        "loan_amount",
				Type:        "numeric",
				Description: "Requested loan amount, in thousands",
				Impact:      ImpactHigh,
				Default:     100,
			},
			{
				Name:        "loan_amount_term",
				Type:        "numeric",
				Description: "Loan term in days",
				Impact:      ImpactMedium,
				Values:      []string{"360", "180", "480", "300", "240", "120", "84"},
				Default:     360,
			},
			{
				Name:        "credit_history",
				Type:        "binary",
				Description: "Credit history (1 = good record, 0 = known defaults)",
				Impact:      ImpactVeryHigh,
				Values:      []string{"1", "0"},
				Default:     1.0,
			},
			{
				Name:        "property_area",
				Type:        "categorical",
				Description: "Property location area",
				Impact:      ImpactMedium,
				Values:      []string{"Urban", "Semiurban", "Rural"},
			},
		},
		Importance: []ImportanceEntry{
			{Feature: "Credit_History", Weight: 0.35},
			{Feature: "ApplicantIncome", Weight: 0.18},
			{Feature: "LoanAmount", Weight: 0.15},
			{Feature: "CoapplicantIncome", Weight: 0.12},
			{Feature: "Property_Area", Weight: 0.08},
			{Feature: "Loan_Amount_Term", Weight: 0.06},
			{Feature: "Education", Weight: 0.04},
			{Feature: "Married", Weight: 0.02},
		},
		Interpretation: []string{
			"Credit history is the single most important factor",
			"Incomes contribute significantly to the decision",
			"Large loan amounts lower the approval probability",
			"Remaining factors have moderate to low influence",
		},
		Guide: Guide{
			Steps: []string{
				"Fill in the applicant information",
				"Submit the prediction request",
				"Review the probability, decision, and recommendations",
			},
			DecisionRule: "Probabilities of 50% or more are approved; anything below is not approved",
			KeyFactors: []string{
				"A clean credit history",
				"Stable and sufficient income",
				"A loan amount proportional to income",
			},
		},
		Disclaimer: "Predictions are based on historical data and may not reflect actual lending decisions. Always consult a financial advisor for important decisions.",
	}
}
