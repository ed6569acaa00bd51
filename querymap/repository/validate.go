package repository

import (
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/krew-solutions/querymap-go/querymap/fault"
	"github.com/krew-solutions/querymap-go/querymap/option"
)

// ValidateFunc is the hook invoked before the validated store/update entry
// points. The id option is Nothing on create and Some on update. Returning
// an error aborts the write.
type ValidateFunc func(data Record, id option.Option[any]) error

// NoValidation is the default hook: accept everything.
func NoValidation(Record, option.Option[any]) error {
	return nil
}

// use a single instance, it caches rule info
var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
}

// RulesValidator builds a ValidateFunc from a map of field name to validator
// tag expression (e.g. {"title": "required,max=255"}). Violations surface as
// a single WriteFailed-coded fault listing the failed fields.
func RulesValidator(rules map[string]any) ValidateFunc {
	return func(data Record, _ option.Option[any]) error {
		failures := validate.ValidateMap(data, rules)
		if len(failures) == 0 {
			return nil
		}

		messages := make([]string, 0, len(failures))
		for field, failure := range failures {
			messages = append(messages, field+": "+translate(failure))
		}
		sort.Strings(messages)

		return fault.New(strings.Join(messages, "; "), fault.CodeWriteFailed)
	}
}

func translate(failure any) string {
	err, ok := failure.(error)
	if !ok {
		return "invalid value"
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		parts = append(parts, strings.TrimSpace(e.Translate(trans)))
	}
	return strings.Join(parts, ", ")
}
