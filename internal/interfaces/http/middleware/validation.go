package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nizy/tailor/internal/domain/trade"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
)

// StatusFilterAll selects every lifecycle state in list and export queries
const StatusFilterAll = "All"

var setupValidatorOnce sync.Once

// SetupValidator makes gin's validator report fields by their json or form
// names and adds the order_status tag. Later calls do nothing.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || s == StatusFilterAll || trade.OrderStatus(s).IsValid()
		})
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// HandleValidationError answers 400 with one detail per rejected field
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", RequestIDOf(c), details))
}

var fixedMessages = map[string]string{
	"required":     "This field is required",
	"uuid":         "Invalid UUID format",
	"dive":         "Invalid list entry",
	"order_status": "Must be All, Pending, Partially Completed, Completed or Delivered",
}

var boundMessages = map[string]string{
	"min":   "Must be at least %s",
	"max":   "Must be at most %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be less than or equal to %s",
	"oneof": "Must be one of: %s",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	format, ok := boundMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	msg := fmt.Sprintf(format, fe.Param())
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
