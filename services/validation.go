package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	de_translations "github.com/go-playground/validator/v10/translations/de"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/juho05/log"
)

var (
	validate   *validator.Validate
	translator *ut.UniversalTranslator
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("notblank", validators.NotBlank)

	enLocale := en.New()
	translator = ut.New(enLocale, enLocale, de.New())
	enTrans, _ := translator.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		log.Fatalf("register en validation translations: %s", err)
	}
	deTrans, _ := translator.GetTranslator("de")
	if err := de_translations.RegisterDefaultTranslations(validate, deTrans); err != nil {
		log.Fatalf("register de validation translations: %s", err)
	}
}

// Validate validates obj against its `validate` struct tags.
func Validate(obj any) error {
	return validate.Struct(obj)
}

// FieldErrors maps the names of all invalid fields in err to a message in lang.
// It returns nil if err does not contain validation errors.
func FieldErrors(lang string, err error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return nil
	}
	trans, found := translator.GetTranslator(lang)
	if !found {
		trans, _ = translator.GetTranslator("en")
	}
	fields := make(map[string]string, len(vErrs))
	for _, e := range vErrs {
		fields[e.Field()] = e.Translate(trans)
	}
	return fields
}
