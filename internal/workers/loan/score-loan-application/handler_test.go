package scoreloanapplication

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/models"
	"loan-approval-service/internal/prediction"

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

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loan_approval_model.json")
	require.NoError(t, os.WriteFile(path, []byte(testArtifact), 0o644))

	log := logger.NewTestLogger(t)
	svc := prediction.NewService(gateway.New(path, log), log)

	return NewHandler(&Config{Enabled: true, Timeout: 10 * time.Second}, svc, nil, log)
}

func createDegradedHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	gw := gateway.New(filepath.Join(t.TempDir(), "missing.json"), log)
	svc := prediction.NewService(gw, log)

	return NewHandler(&Config{Enabled: true, Timeout: 10 * time.Second}, svc, nil, log)
}

func createTestApplication() map[string]interface{} {
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
// Execute Tests
// ==========================

func TestHandler_Execute_ApprovesStrongApplicant(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Application: createTestApplication()})
	require.NoError(t, err)

	assert.InDelta(t, 0.82, output.Probability, 1e-3)
	assert.Equal(t, models.DecisionApproved, output.Decision)
	assert.NotNil(t, output.Recommendations)
	assert.Empty(t, output.Recommendations)
}

func TestHandler_Execute_RejectsPoorCreditHistory(t *testing.T) {
	h := createTestHandler(t)

	app := createTestApplication()
	app["credit_history"] = 0.0

	output, err := h.Execute(context.Background(), &Input{Application: app})
	require.NoError(t, err)

	assert.InDelta(t, 0.2, output.Probability, 1e-3)
	assert.Equal(t, models.DecisionNotApproved, output.Decision)
	assert.NotEmpty(t, output.Recommendations)
}

// Scoring has no business-outcome branch for bad input. A malformed
// application fails the job so the process does not advance.
func TestHandler_Execute_InvalidApplicationFailsJob(t *testing.T) {
	h := createTestHandler(t)

	app := createTestApplication()
	app["property_area"] = "Coastal"

	output, err := h.Execute(context.Background(), &Input{Application: app})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestHandler_Execute_DegradedModel(t *testing.T) {
	h := createDegradedHandler(t)

	for i := 0; i < 2; i++ {
		output, err := h.Execute(context.Background(), &Input{Application: createTestApplication()})
		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactNotFound))
	}
}
