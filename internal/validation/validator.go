package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ignatzorin/proposals-console/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator возвращает общий экземпляр с зарегистрированными правилами консоли.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Ошибки адресуем по имени поля формы, а не Go-структуры
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("opportunity_status", func(fl validator.FieldLevel) bool {
			_, ok := models.ValidOpportunityStatuses[fl.Field().String()]
			return ok
		})

		validate = v
	})
	return validate
}

// FieldErrors ошибки формы по имени поля.
type FieldErrors map[string]string

// Add добавляет ошибку, если по полю её ещё нет.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Has сообщает, есть ли ошибка по полю.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Get текст ошибки по полю (пустая строка, если ошибки нет).
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// Empty сообщает, что форма прошла проверку.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// First первая ошибка в заданном порядке полей; остальные поля идут по алфавиту.
func (fe FieldErrors) First(order ...string) string {
	for _, field := range order {
		if msg, ok := fe[field]; ok {
			return msg
		}
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return fe[keys[0]]
}

// collect прогоняет структуру через валидатор и переводит ошибки в сообщения.
func collect(form interface{}, message func(validator.FieldError) string) FieldErrors {
	errs := FieldErrors{}

	err := Validator().Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}
