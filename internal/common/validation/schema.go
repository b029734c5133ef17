package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "jobtrack/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateAgainstSchema checks a decoded JSON document against a JSON schema held as a map,
// which is how activity schemas arrive from the registry.
func ValidateAgainstSchema(schema map[string]interface{}, document interface{}) (*ValidationResult, error) {
	if len(schema) == 0 {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// DecodeVariables checks Zeebe job variables against schema and decodes them into dst.
// Every failure is a VALIDATION_FAILED StandardError except a broken schema.
func DecodeVariables(schema map[string]interface{}, variables string, dst interface{}) error {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &doc); err != nil {
		return apperrors.NewValidationError("job variables are not a JSON object")
	}

	result, err := ValidateAgainstSchema(schema, doc)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal([]byte(variables), dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// CheckOutput verifies that the variables a worker is about to return satisfy
// the activity's output schema. A mismatch is an INTERNAL_ERROR.
func CheckOutput(schema map[string]interface{}, output interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	raw, err := json.Marshal(output)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.NewInternalError(err)
	}

	result, err := ValidateAgainstSchema(schema, doc)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewInternalError(fmt.Errorf("output does not match schema: %s",
			strings.Join(result.GetErrorMessages(), "; ")))
	}
	return nil
}
