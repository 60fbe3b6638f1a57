package handler

import (
	"errors"
	"strings"

	locale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	translations "github.com/go-playground/validator/v10/translations/en"
)

// requestValidator wraps go-playground/validator with English message
// translation so handlers return readable field errors.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()

	english := locale.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = translations.RegisterDefaultTranslations(validate, trans)

	return &requestValidator{
		validate: validate,
		trans:    trans,
	}
}

// check validates a request payload and flattens all field errors into a
// single message.
func (rv *requestValidator) check(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		msgs = append(msgs, fe.Translate(rv.trans))
	}

	return errors.New(strings.Join(msgs, "; "))
}
