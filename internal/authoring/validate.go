package authoring

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

// fieldMessages: тексты ошибок форм по "поле.тег". Остальное переводит ru-переводчик валидатора.
var fieldMessages = map[string]string{
	"title.required":         "Название обязательно и должно содержать минимум 2 символа.",
	"title.min":              "Название обязательно и должно содержать минимум 2 символа.",
	"categoryId.required":    "Категория обязательна",
	"subCategoryId.required": "Подкатегория обязательна",
	"name.required":          "Имя обязательно и должно быть длиной не менее 2 символов",
	"name.min":               "Имя обязательно и должно быть длиной не менее 2 символов",
	"fileUrl.required":       "Файл обязателен",
	"price.gte":              "Цена не может быть отрицательной",
}

const msgSubCategoryMismatch = "Подкатегория не относится к выбранной категории"

func initValidator() {
	validateOnce.Do(func() {
		validate = validator.New()

		_ru := ru.New()
		uni := ut.New(_ru, _ru)
		translator, _ = uni.GetTranslator("ru")
		_ = ru_translations.RegisterDefaultTranslations(validate, translator)

		// Ошибки адресуются JSON-именами полей.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// FieldErrors: сообщения об ошибках по полям формы.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// validateStruct проверяет значения формы по тегам validate.
func validateStruct(v any) FieldErrors {
	initValidator()

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}
