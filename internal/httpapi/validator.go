package httpapi

import "github.com/go-playground/validator/v10"

// requestValidator implements echo.Validator using go-playground/validator.
type requestValidator struct {
	v *validator.Validate
}

func newValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}
