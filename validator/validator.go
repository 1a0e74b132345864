package validator

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
)

// ValidateEmail checks that email is present and well formed
func ValidateEmail(email, message string) error {
	err := validation.Validate(email,
		validation.Required,
		is.Email,
	)
	if err != nil {
		return errors.NewValidationError("email", message)
	}
	return nil
}

// Required checks that each field pointer of structPtr holds a non-empty
// value. Whitespace counts as a value. The first missing field (by name) is
// reported as a missing-field error carrying message.
func Required(message string, structPtr any, fieldPtrs ...any) error {
	rules := make([]*validation.FieldRules, 0, len(fieldPtrs))
	for _, ptr := range fieldPtrs {
		rules = append(rules, validation.Field(ptr, validation.Required))
	}

	err := validation.ValidateStruct(structPtr, rules...)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %T: %w", structPtr, err)
	}

	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return errors.NewMissingFieldError(names[0], message)
}

// ValidateStatus accepts the empty status (caller applies the default) and
// the known note statuses
func ValidateStatus(status models.NoteStatus) error {
	err := validation.Validate(string(status),
		validation.In(string(models.NoteStatusDraft), string(models.NoteStatusSaved)),
	)
	if err != nil {
		return errors.NewValidationError("status", "Status must be either draft or saved")
	}
	return nil
}
