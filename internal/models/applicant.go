package models

// Accepted levels for each categorical applicant attribute. The scoring
// pipeline was fitted on exactly these levels; anything else is rejected
// before scoring.
var (
	GenderValues       = []string{"Male", "Female"}
	MarriedValues      = []string{"Yes", "No"}
	DependentsValues   = []string{"0", "1", "2", "3+"}
	EducationValues    = []string{"Graduate", "Not Graduate"}
	SelfEmployedValues = []string{"Yes", "No"}
	PropertyAreaValues = []string{"Urban", "Semiurban", "Rural"}

	// CreditHistoryValues mirrors the training data encoding: 1.0 means a
	// clean repayment record, 0.0 means known defaults.
	CreditHistoryValues = []float64{1.0, 0.0}

	// LoanTermValues are the repayment terms (in days) present in the
	// training data.
	LoanTermValues = []int{360, 180, 480, 300, 240, 120, 84}
)

// ApplicantRecord is a validated loan application, shaped like one row of
// the frame the pipeline was trained on.
type ApplicantRecord struct {
	Gender            string  `json:"gender"`
	Married           string  `json:"married"`
	Dependents        string  `json:"dependents"`
	Education         string  `json:"education"`
	SelfEmployed      string  `json:"self_employed"`
	ApplicantIncome   float64 `json:"applicant_income"`
	CoapplicantIncome float64 `json:"coapplicant_income"`
	LoanAmount        float64 `json:"loan_amount"`
	LoanAmountTerm    int     `json:"loan_amount_term"`
	CreditHistory     float64 `json:"credit_history"`
	PropertyArea      string  `json:"property_area"`
}

// Features returns the record keyed by the exact column names the pipeline
// expects.
func (r ApplicantRecord) Features() map[string]interface{} {
	return map[string]interface{}{
		"Gender":            r.Gender,
		"Married":           r.Married,
		"Dependents":        r.Dependents,
		"Education":         r.Education,
		"Self_Employed":     r.SelfEmployed,
		"ApplicantIncome":   r.ApplicantIncome,
		"CoapplicantIncome": r.CoapplicantIncome,
		"LoanAmount":        r.LoanAmount,
		"Loan_Amount_Term":  float64(r.LoanAmountTerm),
		"Credit_History":    r.CreditHistory,
		"Property_Area":     r.PropertyArea,
	}
}
