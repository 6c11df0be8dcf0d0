package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps field keys to shopper-facing messages.
type FieldErrors map[string]string

// Merge folds other into e, overwriting on key collision.
func (e FieldErrors) Merge(other map[string]string) FieldErrors {
	for k, v := range other {
		e[k] = v
	}
	return e
}

// FromBindError flattens a gin bind/validation error into a field->message
// map. dst is the bound struct pointer, used to read its json tags.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe.StructField())] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = "The submitted form data is invalid."
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag := f.Tag.Get("json")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid e-mail address."
	case "min":
		return "Must be at least " + param + " characters."
	case "max":
		return "Must be at most " + param + " characters."
	default:
		return "Invalid value."
	}
}
