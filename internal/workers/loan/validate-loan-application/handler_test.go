package validateloanapplication

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/prediction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)

	// Validation never touches the artifact, so the gateway can point at
	// nothing.
	gw := gateway.New(filepath.Join(t.TempDir(), "unused.json"), log)
	svc := prediction.NewService(gw, log)

	return NewHandler(&Config{Enabled: true, Timeout: 10 * time.Second}, svc, log)
}

func createTestApplication() map[string]interface{} {
	return map[string]interface{}{
		"gender":             "Female",
		"married":            "No",
		"dependents":         "1",
		"education":          "Graduate",
		"self_employed":      "Yes",
		"applicant_income":   4200.0,
		"coapplicant_income": 1500.0,
		"loan_amount":        120.0,
		"loan_amount_term":   180.0,
		"credit_history":     1.0,
		"property_area":      "Semiurban",
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_ValidApplication(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Application: createTestApplication()})
	require.NoError(t, err)

	assert.True(t, output.Valid)
	assert.Empty(t, output.ValidationErrors)
	require.NotNil(t, output.Record)
	assert.Equal(t, "Female", output.Record.Gender)
	assert.Equal(t, 180, output.Record.LoanAmountTerm)
}

func TestHandler_Execute_InvalidApplication(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name       string
		mutate     func(app map[string]interface{})
		wantFields []string
	}{
		{
			name:       "gender outside domain",
			mutate:     func(app map[string]interface{}) { app["gender"] = "Other" },
			wantFields: []string{"gender"},
		},
		{
			name:       "negative income",
			mutate:     func(app map[string]interface{}) { app["applicant_income"] = -1.0 },
			wantFields: []string{"applicant_income"},
		},
		{
			name: "several fields at once",
			mutate: func(app map[string]interface{}) {
				app["credit_history"] = 0.3
				delete(app, "education")
			},
			wantFields: []string{"education", "credit_history"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestApplication()
			tt.mutate(app)

			output, err := h.Execute(context.Background(), &Input{Application: app})
			require.NoError(t, err)

			assert.False(t, output.Valid)
			assert.Nil(t, output.Record)
			require.Len(t, output.ValidationErrors, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, output.ValidationErrors[i].Field)
			}
		})
	}
}

func TestHandler_Execute_MissingApplication(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.False(t, output.Valid)
	// Every field is reported missing at once.
	assert.Len(t, output.ValidationErrors, 11)
}
