package cart

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/aritzhuerta/storefront-cart/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// AddToCartInput describes the product variant being added.
type AddToCartInput struct {
	ProductID     string          `json:"productId" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	Size          string          `json:"size" validate:"required"`
	Color         string          `json:"color" validate:"required"`
	Customization json.RawMessage `json:"customization,omitempty"`
}

func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "is invalid"
}
