package prediction

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const testArtifact = `{
  "schema_version": 1,
  "model": {
    "name": "loan-approval",
    "version": "1.0.0",
    "trained_at": "2025-03-14T09:30:00Z",
    "classes": ["Not Approved", "Approved"],
    "positive_class": "Approved"
  },
  "intercept": -1.783169,
  "numeric_features": {
    "ApplicantIncome":   {"mean": 5000, "std": 2500, "weight": 0.45},
    "CoapplicantIncome": {"mean": 1600, "std": 1600, "weight": 0.20},
    "LoanAmount":        {"mean": 140,  "std": 80,   "weight": -0.55},
    "Loan_Amount_Term":  {"mean": 342,  "std": 64,   "weight": -0.10},
    "Credit_History":    {"mean": 0,    "std": 1,    "weight": 2.902645}
  },
  "categorical_features": {
    "Gender":        {"levels": {"Male": 0.02, "Female": -0.02}},
    "Married":       {"levels": {"Yes": 0.11, "No": -0.05}},
    "Dependents":    {"levels": {"0": 0.03, "1": 0.01, "2": -0.02, "3+": -0.06}},
    "Education":     {"levels": {"Graduate": 0.09, "Not Graduate": -0.07}},
    "Self_Employed": {"levels": {"No": 0.04, "Yes": -0.04}},
    "Property_Area": {"levels": {"Urban": 0.06, "Semiurban": 0.10, "Rural": -0.08}}
  }
}`

func createTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loan_approval_model.json")
	require.NoError(t, os.WriteFile(path, []byte(testArtifact), 0o644))

	log := logger.NewTestLogger(t)
	return NewService(gateway.New(path, log), log)
}

func createDegradedService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "missing.json")

	log := logger.NewTestLogger(t)
	return NewService(gateway.New(path, log), log)
}

// createValidInput is a strong applicant profile: clean credit history,
// average income, small loan against it.
func createValidInput() map[string]interface{} {
	return map[string]interface{}{
		"gender":             "Male",
		"married":            "Yes",
		"dependents":         "0",
		"education":          "Graduate",
		"self_employed":      "No",
		"applicant_income":   5000.0,
		"coapplicant_income": 0.0,
		"loan_amount":        100.0,
		"loan_amount_term":   360.0,
		"credit_history":     1.0,
		"property_area":      "Urban",
	}
}

// ==========================
// BuildRecord Tests
// ==========================

func TestService_BuildRecord_Valid(t *testing.T) {
	svc := createTestService(t)

	record, err := svc.BuildRecord(createValidInput())
	require.NoError(t, err)

	assert.Equal(t, "Male", record.Gender)
	assert.Equal(t, "Yes", record.Married)
	assert.Equal(t, "0", record.Dependents)
	assert.Equal(t, "Graduate", record.Education)
	assert.Equal(t, "No", record.SelfEmployed)
	assert.Equal(t, 5000.0, record.ApplicantIncome)
	assert.Equal(t, 0.0, record.CoapplicantIncome)
	assert.Equal(t, 100.0, record.LoanAmount)
	assert.Equal(t, 360, record.LoanAmountTerm)
	assert.Equal(t, 1.0, record.CreditHistory)
	assert.Equal(t, "Urban", record.PropertyArea)
}

func TestService_BuildRecord_Invalid(t *testing.T) {
	svc := createTestService(t)

	tests := []struct {
		name      string
		mutate    func(raw map[string]interface{})
		wantField string
		wantCode  string
	}{
		{
			name:      "negative applicant income",
			mutate:    func(raw map[string]interface{}) { raw["applicant_income"] = -1.0 },
			wantField: "applicant_income",
			wantCode:  errors.FieldCodeBelowMinimum,
		},
		{
			name:      "gender outside domain",
			mutate:    func(raw map[string]interface{}) { raw["gender"] = "Other" },
			wantField: "gender",
			wantCode:  errors.FieldCodeInvalidValue,
		},
		{
			name:      "missing property area",
			mutate:    func(raw map[string]interface{}) { delete(raw, "property_area") },
			wantField: "property_area",
			wantCode:  errors.FieldCodeMissingRequired,
		},
		{
			name:      "income as string",
			mutate:    func(raw map[string]interface{}) { raw["applicant_income"] = "5000" },
			wantField: "applicant_income",
			wantCode:  errors.FieldCodeInvalidType,
		},
		{
			name:      "dependents outside domain",
			mutate:    func(raw map[string]interface{}) { raw["dependents"] = "4" },
			wantField: "dependents",
			wantCode:  errors.FieldCodeInvalidValue,
		},
		{
			name:      "term outside training set",
			mutate:    func(raw map[string]interface{}) { raw["loan_amount_term"] = 90.0 },
			wantField: "loan_amount_term",
			wantCode:  errors.FieldCodeInvalidValue,
		},
		{
			name:      "fractional term",
			mutate:    func(raw map[string]interface{}) { raw["loan_amount_term"] = 360.5 },
			wantField: "loan_amount_term",
			wantCode:  errors.FieldCodeInvalidType,
		},
		{
			name:      "credit history outside domain",
			mutate:    func(raw map[string]interface{}) { raw["credit_history"] = 0.5 },
			wantField: "credit_history",
			wantCode:  errors.FieldCodeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := createValidInput()
			tt.mutate(raw)

			record, err := svc.BuildRecord(raw)
			assert.Nil(t, record)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

			fields := errors.FieldErrors(err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
			assert.Equal(t, tt.wantCode, fields[0].Code)
		})
	}
}

func TestService_BuildRecord_CollectsAllFailures(t *testing.T) {
	svc := createTestService(t)

	raw := createValidInput()
	raw["gender"] = "Other"
	raw["applicant_income"] = -1.0
	delete(raw, "married")

	_, err := svc.BuildRecord(raw)
	require.Error(t, err)

	fields := errors.FieldErrors(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "gender", fields[0].Field)
	assert.Equal(t, "married", fields[1].Field)
	assert.Equal(t, "applicant_income", fields[2].Field)
}

func TestService_BuildRecord_IgnoresUnknownFields(t *testing.T) {
	svc := createTestService(t)

	raw := createValidInput()
	raw["session_id"] = "abc-123"

	record, err := svc.BuildRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "Male", record.Gender)
}

// ==========================
// Decide Tests
// ==========================

func TestService_Decide(t *testing.T) {
	svc := createTestService(t)

	tests := []struct {
		probability float64
		want        string
	}{
		{0.5, models.DecisionApproved}, // boundary is approved
		{0.499999, models.DecisionNotApproved},
		{1.0, models.DecisionApproved},
		{0.0, models.DecisionNotApproved},
		{0.82, models.DecisionApproved},
		{0.2, models.DecisionNotApproved},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.Decide(tt.probability), "probability %v", tt.probability)
	}
}

// ==========================
// Recommend Tests
// ==========================

func TestService_Recommend(t *testing.T) {
	svc := createTestService(t)

	rejected := svc.Recommend(models.DecisionNotApproved, 0.2)
	assert.Equal(t, []string{
		"Improve credit history",
		"Increase applicant or co-applicant income",
		"Reduce the requested loan amount",
	}, rejected)

	approved := svc.Recommend(models.DecisionApproved, 0.82)
	assert.NotNil(t, approved)
	assert.Empty(t, approved)
}

// Recommendations are non-empty exactly when the decision is Not Approved.
func TestService_Recommend_MatchesDecision(t *testing.T) {
	svc := createTestService(t)

	for _, p := range []float64{0.0, 0.2, 0.499999, 0.5, 0.82, 1.0} {
		decision := svc.Decide(p)
		recs := svc.Recommend(decision, p)

		if decision == models.DecisionNotApproved {
			assert.NotEmpty(t, recs, "probability %v", p)
		} else {
			assert.Empty(t, recs, "probability %v", p)
		}
	}
}

// ==========================
// Predict Tests
// ==========================

func TestService_Predict_Approves(t *testing.T) {
	svc := createTestService(t)

	result, err := svc.Predict(context.Background(), createValidInput())
	require.NoError(t, err)

	assert.InDelta(t, 0.82, result.Probability, 1e-3)
	assert.Equal(t, models.DecisionApproved, result.Decision)
	assert.NotNil(t, result.Recommendations)
	assert.Empty(t, result.Recommendations)
}

func TestService_Predict_Rejects(t *testing.T) {
	svc := createTestService(t)

	raw := createValidInput()
	raw["credit_history"] = 0.0

	result, err := svc.Predict(context.Background(), raw)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, result.Probability, 1e-3)
	assert.Equal(t, models.DecisionNotApproved, result.Decision)
	assert.Equal(t, []string{
		"Improve credit history",
		"Increase applicant or co-applicant income",
		"Reduce the requested loan amount",
	}, result.Recommendations)
}

func TestService_Predict_ProbabilityInUnitInterval(t *testing.T) {
	svc := createTestService(t)

	for _, income := range []float64{0, 1000, 5000, 250000} {
		raw := createValidInput()
		raw["applicant_income"] = income

		result, err := svc.Predict(context.Background(), raw)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Probability, 0.0)
		assert.LessOrEqual(t, result.Probability, 1.0)
	}
}

func TestService_Predict_ValidationFailure(t *testing.T) {
	svc := createTestService(t)

	raw := createValidInput()
	raw["gender"] = "Other"

	result, err := svc.Predict(context.Background(), raw)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestService_Predict_DegradedModel(t *testing.T) {
	svc := createDegradedService(t)

	_, err := svc.Predict(context.Background(), createValidInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactNotFound))

	// The failed load is cached; later requests fail the same way.
	_, err = svc.Predict(context.Background(), createValidInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactNotFound))
}

func TestService_Predict_ResultWireShape(t *testing.T) {
	svc := createTestService(t)

	result, err := svc.Predict(context.Background(), createValidInput())
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Len(t, decoded, 3)
	assert.Contains(t, decoded, "probability")
	assert.Contains(t, decoded, "decision")
	assert.Contains(t, decoded, "recommendations")
	assert.IsType(t, []interface{}{}, decoded["recommendations"])
}
