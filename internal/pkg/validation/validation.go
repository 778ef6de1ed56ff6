package validation

import (
	"errors"
	"fmt"
	"strings"

	"rapidstor-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error is a malformed-input rejection raised before any remote call.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Descriptor checks a full descriptor document ahead of a save.
func Descriptor(d domain.Descriptor) error {
	if err := validate.Struct(d); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if ok := errors.As(err, &verrs); ok {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
			}
			return &Error{Message: fmt.Sprintf("Invalid descriptor: check %s", strings.Join(fields, ", "))}
		}
		return &Error{Message: "Invalid descriptor"}
	}
	return nil
}

// Descriptors validates every document in a batch save payload.
func Descriptors(ds []domain.Descriptor) error {
	for _, d := range ds {
		if err := Descriptor(d); err != nil {
			return err
		}
	}
	return nil
}

// IsValidationError reports whether err came from input validation.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
