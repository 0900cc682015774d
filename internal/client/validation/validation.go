// Package validation holds the field-level rules applied before a directory
// command is submitted. All functions are pure and deterministic.
package validation

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError names the offending field. It unwraps to the specific sentinel
// (ErrBlankField, ErrInvalidEmail, ...) and also matches common.ErrValidation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return target == common.ErrValidation
}

// NotBlank rejects empty or whitespace-only values.
func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Err: common.ErrBlankField}
	}
	return nil
}

// Email requires a non-blank, email-shaped value.
func Email(value string) error {
	if err := NotBlank("email", value); err != nil {
		return err
	}
	if err := validate.Var(value, "email"); err != nil {
		return &FieldError{Field: "email", Err: common.ErrInvalidEmail}
	}
	return nil
}

// Credential requires a non-blank credential of at least
// common.MinCredentialLength characters.
func Credential(c []byte) error {
	if len(bytes.TrimSpace(c)) == 0 || utf8.RuneCount(c) < common.MinCredentialLength {
		return &FieldError{Field: "credential", Err: common.ErrCredentialTooShort}
	}
	return nil
}

// CheckDigit computes the modulo-11 verification digit of id.
func CheckDigit(id int64) string {
	if id < 0 {
		id = -id
	}
	sum, weight := int64(0), int64(2)
	for ; id > 0; id /= 10 {
		sum += (id % 10) * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch dv := 11 - sum%11; dv {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.FormatInt(dv, 10)
	}
}

// MatchCheckDigit verifies dv against id. "k" is accepted for "K".
func MatchCheckDigit(id int64, dv string) error {
	if !strings.EqualFold(strings.TrimSpace(dv), CheckDigit(id)) {
		return &FieldError{Field: "check_digit", Err: common.ErrInvalidCheckDigit}
	}
	return nil
}

// ValidateNewUser applies the add-user form rules in form order:
// login name, email, credential, then the optional check digit. A check
// digit without an identifier is rejected.
func ValidateNewUser(in models.NewUser) error {
	if err := NotBlank("login_name", in.LoginName); err != nil {
		return err
	}
	if err := Email(in.Email); err != nil {
		return err
	}
	if err := Credential(in.Credential); err != nil {
		return err
	}
	if in.ID < 0 {
		return &FieldError{Field: "identifier", Err: common.ErrBlankField}
	}
	if strings.TrimSpace(in.CheckDigit) == "" {
		return nil
	}
	if in.ID == 0 {
		// a check digit is only meaningful for a caller-supplied identifier
		return &FieldError{Field: "check_digit", Err: common.ErrInvalidCheckDigit}
	}
	return MatchCheckDigit(in.ID, in.CheckDigit)
}

// ValidateUpdate applies the edit form rules. The credential is only checked
// when a new one is supplied.
func ValidateUpdate(upd models.UserUpdate) error {
	if err := NotBlank("login_name", upd.LoginName); err != nil {
		return err
	}
	if err := Email(upd.Email); err != nil {
		return err
	}
	if len(upd.Credential) > 0 {
		return Credential(upd.Credential)
	}
	return nil
}

// ValidateLogin applies the login form rules.
func ValidateLogin(loginName string, credential []byte) error {
	if err := NotBlank("login_name", loginName); err != nil {
		return err
	}
	return Credential(credential)
}
