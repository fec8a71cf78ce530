// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/cart-pricing/internal/cart"
	"github.com/mmeshcher/cart-pricing/internal/model"
)

// ValidationError описывает некорректное поле входных данных.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// IsValidationError сообщает, что в цепочке ошибок есть ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Validator проверяет запросы на расчёт и описания купонов.
type Validator struct {
	v *validator.Validate
}

// New создаёт валидатор, который называет поля по их JSON-именам.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

// QuoteRequest проверяет запрос на расчёт стоимости корзины.
func (v *Validator) QuoteRequest(req model.QuoteRequest) error {
	if err := v.structErr(req); err != nil {
		return err
	}

	for i, e := range req.Entries {
		field := fmt.Sprintf("entries[%d]", i)

		switch e.Type {
		case model.EntryTypeItem:
			if _, err := cart.ParseCategory(e.Category); err != nil {
				return &ValidationError{Field: field + ".category", Reason: err.Error()}
			}
		case model.EntryTypeCoupon:
			hasCode := strings.TrimSpace(e.Code) != ""
			if hasCode == (e.Coupon != nil) {
				return &ValidationError{Field: field, Reason: "coupon entry needs exactly one of code or coupon"}
			}
			if e.Coupon != nil {
				if err := v.couponRules(*e.Coupon); err != nil {
					var ve *ValidationError
					if errors.As(err, &ve) {
						ve.Field = field + ".coupon." + ve.Field
					}
					return err
				}
			}
		}
	}

	return nil
}

// CouponDefinition проверяет описание купона каталога. Код обязателен.
func (v *Validator) CouponDefinition(def model.CouponDefinition) error {
	if strings.TrimSpace(def.Code) == "" {
		return &ValidationError{Field: "code", Reason: "is required"}
	}
	if err := v.structErr(def); err != nil {
		return err
	}
	return v.couponRules(def)
}

func (v *Validator) couponRules(def model.CouponDefinition) error {
	if err := v.structErr(def); err != nil {
		return err
	}

	if def.Kind == model.CouponKindNthItemAmount {
		if _, err := cart.ParseCategory(def.Category); err != nil {
			return &ValidationError{Field: "category", Reason: err.Error()}
		}
	}

	return nil
}

func (v *Validator) structErr(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fieldPath(fe.Namespace()), Reason: describe(fe)}
	}

	return &ValidationError{Reason: err.Error()}
}

// fieldPath отрезает имя корневой структуры: "QuoteRequest.entries[0].price" -> "entries[0].price".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed on " + fe.Tag()
	}
}
