package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateTimeLayout is the literal date format used by the API in request and
// response bodies.
const DateTimeLayout = "2006-01-02 15:04:05"

type createEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02 15:04:05"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02 15:04:05"`
	Location    string `json:"location" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
}

type registerAttendeeRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// newValidator builds the request validator, reporting fields under their
// JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts validator failures into a field → message map for the
// problem response.
func fieldErrors(err error) map[string]interface{} {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]interface{}{"body": err.Error()}
	}

	out := make(map[string]interface{}, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "capacity" {
			return "capacity required and should be greater than 0"
		}
		return fmt.Sprintf("%s required", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s format should be YYYY-MM-DD HH:MM:SS", fe.Field())
	case "gt":
		return "capacity required and should be greater than 0"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}
