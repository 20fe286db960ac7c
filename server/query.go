package server

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const minSearchLength = 2

// parseNonNegativeInt returns def for an empty value.
func parseNonNegativeInt(name, s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, &ValidationError{Msg: name + " must be a non-negative integer"}
	}
	return v, nil
}

func validateSearchQuery(v *validator.Validate, q string) error {
	if err := v.Var(q, "min=2"); err != nil {
		return &ValidationError{Msg: "Query must be at least " + strconv.Itoa(minSearchLength) + " characters"}
	}
	return nil
}

func validateMinutes(v *validator.Validate, minutes int) error {
	if err := v.Var(minutes, "gt=0,lte=1440"); err != nil {
		return &ValidationError{Msg: "minutes must be between 1 and 1440"}
	}
	return nil
}
