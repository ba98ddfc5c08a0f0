package validation

import (
	"regexp"
	"unicode"
)

// PasswordPolicy lists the rules a new admin password must satisfy. Zero
// values disable a rule.
type PasswordPolicy struct {
	RegExp          string `json:"reg_exp" mapstructure:"reg_exp"`
	MinSize         int    `json:"min_size" mapstructure:"min_size"`
	Min2Lower2Upper bool   `json:"min_2_lower_2_upper" mapstructure:"min_2_lower_2_upper"`
	NeedDigit       bool   `json:"need_digit" mapstructure:"need_digit"`
	Min2Letters     bool   `json:"min_2_letters" mapstructure:"min_2_letters"`
}

// PasswordValidationError names the first rule a password broke.
type PasswordValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *PasswordValidationError) Error() string {
	return e.Message
}

// Rule codes.
const (
	RuleRegExp          = "regexp_mismatch"
	RuleMinSize         = "min_size"
	RuleMin2Lower2Upper = "min_2_lower_2_upper"
	RuleNeedDigit       = "need_digit"
	RuleMin2Letters     = "min_2_letters"
)

var ruleMessages = map[string]string{
	RuleRegExp:          "密码格式不符合要求",
	RuleMinSize:         "密码长度不足",
	RuleMin2Lower2Upper: "密码至少包含2个小写字母和2个大写字母",
	RuleNeedDigit:       "密码至少包含1个数字",
	RuleMin2Letters:     "密码至少包含2个字母",
}

func violation(code string) *PasswordValidationError {
	return &PasswordValidationError{Code: code, Message: ruleMessages[code]}
}

// DefaultAdminPasswordPolicy is applied to dashboard accounts.
func DefaultAdminPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinSize:     8,
		NeedDigit:   true,
		Min2Letters: true,
	}
}

// Validate returns the first broken rule, checked in the order regexp, size,
// case mix, digit, letters. A nil result means the password is acceptable.
func (p PasswordPolicy) Validate(password string) *PasswordValidationError {
	if p.RegExp != "" {
		matched, err := regexp.MatchString(p.RegExp, password)
		if err != nil || !matched {
			return violation(RuleRegExp)
		}
	}

	if p.MinSize > 0 && len([]rune(password)) < p.MinSize {
		return violation(RuleMinSize)
	}

	var lower, upper, letters, digits int
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digits++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}

	if p.Min2Lower2Upper && (lower < 2 || upper < 2) {
		return violation(RuleMin2Lower2Upper)
	}
	if p.NeedDigit && digits == 0 {
		return violation(RuleNeedDigit)
	}
	if p.Min2Letters && letters < 2 {
		return violation(RuleMin2Letters)
	}
	return nil
}

// Requirements lists the enabled rule codes for display.
func (p PasswordPolicy) Requirements() []string {
	var out []string
	if p.MinSize > 0 {
		out = append(out, RuleMinSize)
	}
	if p.Min2Lower2Upper {
		out = append(out, RuleMin2Lower2Upper)
	}
	if p.NeedDigit {
		out = append(out, RuleNeedDigit)
	}
	if p.Min2Letters {
		out = append(out, RuleMin2Letters)
	}
	if p.RegExp != "" {
		out = append(out, RuleRegExp)
	}
	return out
}
