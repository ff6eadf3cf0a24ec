// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	in=a,b,c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Username string `json:"username" validate:"required,min=2,max=50"`
//	    Role     string `json:"role"     validate:"nullable,in=buyer,seller"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range mergeInRules(rules) {
			if rule == "nullable" {
				continue
			}
			if msg := apply(rule, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

func apply(rule string, value reflect.Value) string {
	name, arg, _ := strings.Cut(rule, "=")

	switch name {
	case "required":
		if isEmpty(value) {
			return "is required"
		}
	case "min":
		n, _ := strconv.ParseFloat(arg, 64)
		if value.Kind() == reflect.String {
			if utf8.RuneCountInString(value.String()) < int(n) {
				return fmt.Sprintf("must be at least %s characters", arg)
			}
		} else if num, ok := asFloat(value); ok && num < n {
			return fmt.Sprintf("must be at least %s", arg)
		}
	case "max":
		n, _ := strconv.ParseFloat(arg, 64)
		if value.Kind() == reflect.String {
			if utf8.RuneCountInString(value.String()) > int(n) {
				return fmt.Sprintf("must be at most %s characters", arg)
			}
		} else if num, ok := asFloat(value); ok && num > n {
			return fmt.Sprintf("must be at most %s", arg)
		}
	case "gte":
		n, _ := strconv.ParseFloat(arg, 64)
		if num, ok := asFloat(value); ok && num < n {
			return fmt.Sprintf("must be at least %s", arg)
		}
	case "in":
		allowed := strings.Split(arg, ",")
		got := fmt.Sprintf("%v", value.Interface())
		for _, a := range allowed {
			if got == a {
				return ""
			}
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	}

	return ""
}

// mergeInRules re-joins an `in=a,b,c` rule that the comma split scattered.
func mergeInRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for i := 0; i < len(rules); i++ {
		rule := rules[i]
		if strings.HasPrefix(rule, "in=") {
			for i+1 < len(rules) && !strings.Contains(rules[i+1], "=") &&
				rules[i+1] != "required" && rules[i+1] != "nullable" {
				i++
				rule += "," + rules[i]
			}
		}
		out = append(out, rule)
	}
	return out
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func isEmpty(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) == ""
	case reflect.Slice, reflect.Map:
		return value.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return value.IsNil()
	default:
		return value.IsZero()
	}
}

func asFloat(value reflect.Value) (float64, bool) {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(value.Int()), true
	case reflect.Float32, reflect.Float64:
		return value.Float(), true
	default:
		return 0, false
	}
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
