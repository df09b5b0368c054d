package csvimport

import (
	"fmt"
	"net/mail"
	"strings"
)

// ColumnRule validates one column of a row
type ColumnRule struct {
	Column    string
	Required  bool
	MaxLength int
	Email     bool
	OneOf     []string
	// UniqueKey, when set, folds values before the in-file duplicate check
	UniqueKey func(string) string
}

// Column starts a rule for a column
func Column(name string) ColumnRule {
	return ColumnRule{Column: name}
}

// Require marks the column mandatory
func (r ColumnRule) Require() ColumnRule {
	r.Required = true
	return r
}

// Max caps the value length in characters
func (r ColumnRule) Max(n int) ColumnRule {
	r.MaxLength = n
	return r
}

// IsEmail requires a valid address when present
func (r ColumnRule) IsEmail() ColumnRule {
	r.Email = true
	return r
}

// In restricts values to a case-insensitive set
func (r ColumnRule) In(values ...string) ColumnRule {
	r.OneOf = values
	return r
}

// Unique rejects repeated values within the file after folding them with key
func (r ColumnRule) Unique(key func(string) string) ColumnRule {
	r.UniqueKey = key
	return r
}

// RowValidator applies column rules and remembers unique values across rows
type RowValidator struct {
	rules []ColumnRule
	seen  map[string]map[string]int
}

// NewRowValidator creates a validator
func NewRowValidator(rules ...ColumnRule) *RowValidator {
	return &RowValidator{rules: rules, seen: make(map[string]map[string]int)}
}

// Validate returns every problem found in the row
func (v *RowValidator) Validate(row *Row) []RowError {
	var errs []RowError
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				errs = append(errs, NewRowError(row.Line, rule.Column, ErrCodeRequiredField,
					fmt.Sprintf("field '%s' is required", rule.Column)))
			}
			continue
		}
		if rule.MaxLength > 0 && len([]rune(value)) > rule.MaxLength {
			errs = append(errs, NewRowError(row.Line, rule.Column, ErrCodeInvalidLength,
				fmt.Sprintf("length must be at most %d", rule.MaxLength)))
		}
		if rule.Email {
			if _, err := mail.ParseAddress(value); err != nil {
				e := NewRowError(row.Line, rule.Column, ErrCodeInvalidFormat, "invalid email address")
				e.Value = value
				errs = append(errs, e)
			}
		}
		if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
			e := NewRowError(row.Line, rule.Column, ErrCodeInvalidValue,
				"must be one of "+strings.Join(rule.OneOf, ", "))
			e.Value = value
			errs = append(errs, e)
		}
		if rule.UniqueKey != nil {
			key := rule.UniqueKey(value)
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			if first, ok := v.seen[rule.Column][key]; ok {
				e := NewRowError(row.Line, rule.Column, ErrCodeDuplicateInFile,
					fmt.Sprintf("duplicate value (first seen in row %d)", first))
				e.Value = value
				errs = append(errs, e)
			} else {
				v.seen[rule.Column][key] = row.Line
			}
		}
	}
	return errs
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
