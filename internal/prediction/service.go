// Package prediction composes validation, scoring, and the decision policy
// into the single predict operation exposed to transports.
package prediction

import (
	"context"
	"time"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/common/metrics"
	"loan-approval-service/internal/common/validation"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/models"
)

// ApprovalThreshold is the fixed decision policy: approval probabilities at
// or above it are approved. Changing it is a product decision, not a config
// knob.
const ApprovalThreshold = 0.5

// Improvement steps for rejected applications, in priority order.
var notApprovedRecommendations = []string{
	"Improve credit history",
	"Increase applicant or co-applicant income",
	"Reduce the requested loan amount",
}

// Service handles prediction requests end to end.
type Service struct {
	gateway *gateway.Gateway
	logger  logger.Logger
}

func NewService(gw *gateway.Gateway, log logger.Logger) *Service {
	return &Service{
		gateway: gw,
		logger:  log.WithFields(map[string]interface{}{"component": "prediction"}),
	}
}

// BuildRecord validates raw applicant input field by field and assembles a
// typed record. Inputs are never trusted, whatever surface they arrived
// through. All field failures are collected before reporting so the caller
// sees every problem at once.
func (s *Service) BuildRecord(raw map[string]interface{}) (*models.ApplicantRecord, error) {
	var record models.ApplicantRecord
	var fields []errors.FieldError

	collect := func(fe *errors.FieldError) {
		if fe != nil {
			fields = append(fields, *fe)
			metrics.ValidationFailuresTotal.WithLabelValues(fe.Field, fe.Code).Inc()
		}
	}

	var fe *errors.FieldError

	record.Gender, fe = validation.RequireStringEnum(raw, "gender", models.GenderValues)
	collect(fe)
	record.Married, fe = validation.RequireStringEnum(raw, "married", models.MarriedValues)
	collect(fe)
	record.Dependents, fe = validation.RequireStringEnum(raw, "dependents", models.DependentsValues)
	collect(fe)
	record.Education, fe = validation.RequireStringEnum(raw, "education", models.EducationValues)
	collect(fe)
	record.SelfEmployed, fe = validation.RequireStringEnum(raw, "self_employed", models.SelfEmployedValues)
	collect(fe)
	record.ApplicantIncome, fe = validation.RequireNonNegativeNumber(raw, "applicant_income")
	collect(fe)
	record.CoapplicantIncome, fe = validation.RequireNonNegativeNumber(raw, "coapplicant_income")
	collect(fe)
	record.LoanAmount, fe = validation.RequireNonNegativeNumber(raw, "loan_amount")
	collect(fe)
	record.LoanAmountTerm, fe = validation.RequireIntFromSet(raw, "loan_amount_term", models.LoanTermValues)
	collect(fe)
	record.CreditHistory, fe = validation.RequireNumberEnum(raw, "credit_history", models.CreditHistoryValues)
	collect(fe)
	record.PropertyArea, fe = validation.RequireStringEnum(raw, "property_area", models.PropertyAreaValues)
	collect(fe)

	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}
	return &record, nil
}

// Decide applies the fixed threshold policy to an approval probability.
func (s *Service) Decide(probability float64) string {
	if probability >= ApprovalThreshold {
		return models.DecisionApproved
	}
	return models.DecisionNotApproved
}

// Recommend returns improvement steps for a rejected application. Approved
// applications get an empty list, never nil, so the wire shape stays stable.
func (s *Service) Recommend(decision string, probability float64) []string {
	if decision != models.DecisionNotApproved {
		return []string{}
	}

	s.logger.Debug("recommending improvement steps", map[string]interface{}{
		"probability": probability,
	})
	return append([]string(nil), notApprovedRecommendations...)
}

// Predict runs the full pipeline for one raw request: build the record,
// score it, decide, recommend. It returns either a complete result or an
// error tagged with the stage that failed; callers never see partial output.
func (s *Service) Predict(ctx context.Context, raw map[string]interface{}) (*models.PredictionResult, error) {
	start := time.Now()

	record, err := s.BuildRecord(raw)
	if err != nil {
		s.observeFailure(start, err)
		return nil, err
	}

	probability, err := s.gateway.Score(ctx, record.Features())
	if err != nil {
		s.observeFailure(start, err)
		return nil, err
	}

	decision := s.Decide(probability)
	result := &models.PredictionResult{
		Probability:     probability,
		Decision:        decision,
		Recommendations: s.Recommend(decision, probability),
	}

	metrics.PredictionsTotal.WithLabelValues(decision).Inc()
	metrics.PredictionDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	s.logger.Info("prediction completed", map[string]interface{}{
		"probability": probability,
		"decision":    decision,
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) observeFailure(start time.Time, err error) {
	stdErr := errors.AsStandard(err)
	metrics.PredictionDuration.WithLabelValues(outcomeLabel(stdErr.Code)).Observe(time.Since(start).Seconds())

	logFields := map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"stage":     stdErr.Stage,
	}
	switch stdErr.Code {
	case errors.ErrCodeValidation:
		logFields["fields"] = errors.FieldErrors(err)
		s.logger.Warn("prediction rejected invalid input", logFields)
	default:
		s.logger.WithError(err).Error("prediction failed", logFields)
	}
}

func outcomeLabel(code errors.ErrorCode) string {
	switch code {
	case errors.ErrCodeValidation:
		return "validation_error"
	case errors.ErrCodeArtifactNotFound, errors.ErrCodeArtifactInvalid:
		return "model_unavailable"
	case errors.ErrCodeScoring:
		return "scoring_error"
	default:
		return "internal_error"
	}
}
