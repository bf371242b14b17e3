package validateloanapplication

import (
	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/models"
)

// Input carries the raw applicant fields submitted to the process.
type Input struct {
	Application map[string]interface{} `json:"application"`
}

// Output reports the validation outcome. An invalid application is a
// business result the process branches on, not a job failure.
type Output struct {
	Valid            bool                    `json:"isValid"`
	Record           *models.ApplicantRecord `json:"record,omitempty"`
	ValidationErrors []errors.FieldError     `json:"validationErrors,omitempty"`
}
