package intake

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// Inline messages shown next to a field.
const (
	MsgRequired = "This field is required."
	MsgEmail    = "Please enter a valid email address."
	MsgPhone    = "Please enter a 10-digit phone number."
	MsgDate     = "Please enter a valid date."
	MsgAmount   = "Please enter a valid amount."
	MsgOption   = "Please choose one of the listed options."
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries the inline message of every invalid field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// FormatPhone keeps at most ten digits of s and formats them as
// (XXX) XXX-XXXX, partially for shorter input.
func FormatPhone(s string) string {
	var digits []byte
	for i := 0; i < len(s) && len(digits) < 10; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	d := string(digits)
	switch {
	case len(d) < 4:
		return d
	case len(d) < 7:
		return fmt.Sprintf("(%s) %s", d[:3], d[3:])
	default:
		return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
	}
}

// Normalize returns r with every phone field in display format.
func Normalize(r models.FormRecord) models.FormRecord {
	for _, f := range models.Fields {
		if f.Kind != models.KindPhone {
			continue
		}
		if v := f.String(r); v != "" {
			_ = f.Set(&r, FormatPhone(v))
		}
	}
	return r
}

// ParseAmount reads a money amount such as "$1,250.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

// CheckField returns the inline message for f in r, or "" when valid.
// Hidden fields are always valid.
func CheckField(f models.Field, r models.FormRecord) string {
	if !f.Visible(r) || f.IsBool() {
		return ""
	}
	v := strings.TrimSpace(f.String(r))
	if v == "" {
		if f.Required {
			return MsgRequired
		}
		return ""
	}

	switch f.Kind {
	case models.KindEmail:
		if !emailRE.MatchString(v) {
			return MsgEmail
		}
	case models.KindPhone:
		if len(strings.Map(keepDigits, v)) != 10 {
			return MsgPhone
		}
	case models.KindDate:
		if _, ok := models.ParseDate(v); !ok {
			return MsgDate
		}
	case models.KindAmount:
		amt, err := ParseAmount(v)
		if err != nil || amt.IsNegative() {
			return MsgAmount
		}
	case models.KindChoice:
		if len(f.Options) > 0 && !contains(f.Options, v) {
			return MsgOption
		}
	}
	return ""
}

// Check validates the given fields of r and returns the messages of the
// invalid ones keyed by field name.
func Check(r models.FormRecord, fields []models.Field) map[string]string {
	errs := map[string]string{}
	for _, f := range fields {
		if msg := CheckField(f, r); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// CheckTouched validates only the named fields, as the wizard does for
// fields the user has already visited.
func CheckTouched(r models.FormRecord, touched []string) map[string]string {
	var fields []models.Field
	for _, name := range touched {
		if f, ok := models.FieldByName(name); ok {
			fields = append(fields, f)
		}
	}
	return Check(r, fields)
}

// CheckSubmission validates every field of r.
func CheckSubmission(r models.FormRecord) map[string]string {
	return Check(r, models.Fields)
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
