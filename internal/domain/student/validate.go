package student

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type rowFields struct {
	Name        string `csv:"name" validate:"required,max=255"`
	Email       string `csv:"email" validate:"required,email"`
	StudentCode string `csv:"student_code" validate:"required,max=50"`
	Phone       string `csv:"phone" validate:"omitempty,max=20"`
	Password    string `csv:"password" validate:"omitempty,min=8"`
}

var rowValidate = newRowValidate()

func newRowValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("csv")
	})
	return v
}

// Validate trims every field of row and checks it against the column rules.
// All failing fields are reported.
func Validate(row Row) ValidatedRow {
	row.Name = strings.TrimSpace(row.Name)
	row.Email = strings.TrimSpace(row.Email)
	row.StudentCode = strings.TrimSpace(row.StudentCode)
	row.Phone = strings.TrimSpace(row.Phone)
	row.Password = strings.TrimSpace(row.Password)

	out := ValidatedRow{Row: row}

	err := rowValidate.Struct(rowFields{
		Name:        row.Name,
		Email:       row.Email,
		StudentCode: row.StudentCode,
		Phone:       row.Phone,
		Password:    row.Password,
	})
	if err == nil {
		return out
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		out.Errors = append(out.Errors, FieldError{Message: err.Error()})
		return out
	}

	for _, fe := range validationErrs {
		value := fmt.Sprint(fe.Value())
		if fe.Field() == "password" {
			value = ""
		}
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Value:   value,
			Message: fieldMessage(fe),
		})
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
