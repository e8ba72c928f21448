package waitlist

import (
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var disposableEmailDomains = map[string]struct{}{
	"tempmail.com":     {},
	"throwaway.email":  {},
	"10minutemail.com": {},
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

const companyPunctuation = "-.,&()"

// RequestValidator normalizes and validates registration payloads.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration names are constants, so an error here is a programming bug.
	mustRegister(v, "not_disposable_email", notDisposableEmail)
	mustRegister(v, "phone_number", validPhoneNumber)
	mustRegister(v, "company_text", validCompanyText)

	return &RequestValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate normalizes req in place and checks every field. The returned error
// is an invalid-request AppError listing each offending field.
func (rv *RequestValidator) Validate(req *CreateWaitlistEntryRequest) error {
	if req == nil {
		return apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	Normalize(req)

	if err := rv.validate.Struct(req); err != nil {
		fields := apperrors.FormatValidationErrors(err, req)
		if len(fields) == 0 {
			return apperrors.NewInvalidRequestError("Invalid request payload", err)
		}
		return apperrors.NewValidationError("Invalid request payload", fields)
	}

	return nil
}

// Normalize canonicalizes user input before validation and storage. Company
// size is left untouched; it must match an enumerated value exactly.
func Normalize(req *CreateWaitlistEntryRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = normalizePhone(req.Phone)
	req.CompanyName = normalizeCompanyText(req.CompanyName)
	req.CompanyNiche = normalizeCompanyText(req.CompanyNiche)
}

// normalizePhone drops separators, keeping digits and '+'. Input that had
// content but no digits is returned trimmed so it still fails validation
// instead of silently becoming an absent phone.
func normalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, trimmed)

	if cleaned == "" {
		return trimmed
	}
	return cleaned
}

func normalizeCompanyText(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

func notDisposableEmail(fl validator.FieldLevel) bool {
	email := strings.ToLower(fl.Field().String())

	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return true
	}

	_, disposable := disposableEmailDomains[email[at+1:]]
	return !disposable
}

func validPhoneNumber(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validCompanyText(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		return false
	}

	for _, r := range value {
		switch {
		case unicode.Is(unicode.Latin, r):
		case r >= '0' && r <= '9':
		case unicode.IsSpace(r):
		case strings.ContainsRune(companyPunctuation, r):
		default:
			return false
		}
	}

	return true
}
