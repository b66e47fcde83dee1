package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("campo '%s' no cumple la regla '%s'", e.Field, e.Tag)
}

var validate = validator.New()

// ValidateStruct valida los tags `validate` de un DTO. Devuelve un error por
// cada campo inválido; vacío significa que el DTO pasó completo.
func ValidateStruct(data interface{}) []*FieldError {
	var errs []*FieldError
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, &FieldError{
				Field: fe.StructNamespace(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return errs
}
