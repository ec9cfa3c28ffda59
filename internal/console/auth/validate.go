package auth

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects which auth form is being submitted.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
	ModeForgot Mode = "forgot"
)

// ParseMode normalises raw input; anything unknown becomes ModeLogin.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeSignup:
		return ModeSignup
	case ModeForgot:
		return ModeForgot
	default:
		return ModeLogin
	}
}

// Title is the heading shown above the form.
func (m Mode) Title() string {
	switch m {
	case ModeSignup:
		return "Create Account"
	case ModeForgot:
		return "Forgot Password"
	default:
		return "Login"
	}
}

// SubmitLabel is the text of the form's submit button.
func (m Mode) SubmitLabel() string {
	switch m {
	case ModeSignup:
		return "Create Account"
	case ModeForgot:
		return "Send Reset Link"
	default:
		return "Login"
	}
}

// Submission is the raw credential form.
type Submission struct {
	Mode     Mode
	Email    string
	Password string
	Confirm  string
}

// Form field names used in FieldErrors.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// FieldErrors maps a form field to its message. An empty map means the submission is valid.
type FieldErrors map[string]string

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

const (
	msgEmail       = "Enter a valid email"
	msgMinLength   = "Min 8 characters"
	msgUppercase   = "Include an uppercase letter"
	msgDigit       = "Include a number"
	msgMismatch    = "Passwords do not match"
	msgEmailInUse  = "Email already in use"
	tagMockEmail   = "mockemail"
	tagHasUpper    = "hasupper"
	tagHasDigit    = "hasdigit"
	passwordMinLen = "min=8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// passwordRules run in order and the last failing rule's message is kept.
var passwordRules = []struct {
	tag     string
	message string
}{
	{passwordMinLen, msgMinLength},
	{tagHasUpper, msgUppercase},
	{tagHasDigit, msgDigit},
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(tagMockEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagHasUpper, func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
	})
	_ = v.RegisterValidation(tagHasDigit, func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
	})
	return v
}

var validate = newValidator()

// Validate checks the submission against the form rules for its mode.
func Validate(sub Submission) FieldErrors {
	errs := FieldErrors{}
	if validate.Var(sub.Email, tagMockEmail) != nil {
		errs[FieldEmail] = msgEmail
	}
	if sub.Mode != ModeForgot {
		for _, rule := range passwordRules {
			if validate.Var(sub.Password, rule.tag) != nil {
				errs[FieldPassword] = rule.message
			}
		}
	}
	if sub.Mode == ModeSignup && sub.Password != sub.Confirm {
		errs[FieldConfirm] = msgMismatch
	}
	return errs
}
