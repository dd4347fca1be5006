// Package validation holds the field rules applied to untrusted event input.
// Every function is pure: it returns the normalized value or a FieldError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"events-api/internal/model"
	apperrors "events-api/pkg/app_errors"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxLocationLength    = 500
	MaxOrganizerLength   = 200

	MinCapacity = 1
	MaxCapacity = 1_000_000

	MinLimit     = 1
	MaxLimit     = 1000
	DefaultLimit = 100
)

const (
	TypeMissing    = "missing"
	TypeNull       = "null"
	TypeEmpty      = "empty"
	TypeTooLong    = "too_long"
	TypeDateFormat = "date_format"
	TypeInteger    = "int_type"
	TypeString     = "string_type"
	TypeRange      = "out_of_range"
	TypeEnum       = "enum"
)

// dateTimeLayouts are tried after the date-only form: T or space separator,
// hour, minute or second precision, and an optional Z, ±hh:mm or ±hhmm offset.
// time.Parse accepts a fractional second after the seconds field even when
// the layout omits it.
var dateTimeLayouts = func() []string {
	var layouts []string
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05", "15:04", "15"} {
			for _, zone := range []string{"Z07:00", "Z0700", ""} {
				layouts = append(layouts, "2006-01-02"+sep+clock+zone)
			}
		}
	}
	return layouts
}()

var (
	validate  = newValidator()
	statusTag = "oneof=" + strings.Join(statusTokens(), " ")
)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func statusTokens() []string {
	tokens := make([]string, 0, len(model.EventStatuses))
	for _, s := range model.EventStatuses {
		tokens = append(tokens, string(s))
	}
	return tokens
}

// IsISODate reports whether s is YYYY-MM-DD or an ISO-8601 date-time.
func IsISODate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Text trims a required string field and checks 1 <= length <= maxLen (in runes).
func Text(field string, in model.Optional[string], maxLen int) (string, *apperrors.FieldError) {
	if fe := presence(field, in, "string", TypeString); fe != nil {
		return "", fe
	}
	value := strings.TrimSpace(in.Value)
	if value == "" {
		return "", newFieldError(field, "Field cannot be empty or contain only whitespace", TypeEmpty)
	}
	if fe := check(field, value, fmt.Sprintf("max=%d", maxLen)); fe != nil {
		return "", fe
	}
	return value, nil
}

// Date accepts a date or date-time and returns the input string unchanged.
func Date(field string, in model.Optional[string]) (string, *apperrors.FieldError) {
	if fe := presence(field, in, "string", TypeString); fe != nil {
		return "", fe
	}
	if fe := check(field, in.Value, "isodate"); fe != nil {
		return "", fe
	}
	return in.Value, nil
}

// Capacity accepts whole numbers in [MinCapacity, MaxCapacity]. Integral
// values too large for int64 are still reported as out of range.
func Capacity(field string, in model.Optional[json.Number]) (int, *apperrors.FieldError) {
	if fe := presence(field, in, "integer", TypeInteger); fe != nil {
		return 0, fe
	}
	n, ok := wholeNumber(in.Value)
	if !ok {
		return 0, newFieldError(field, "Input should be a valid integer", TypeInteger)
	}
	if fe := check(field, n, fmt.Sprintf("min=%d,max=%d", MinCapacity, MaxCapacity)); fe != nil {
		return 0, fe
	}
	return int(n), nil
}

// Status matches the token exactly against the enumerated statuses.
func Status(field string, in model.Optional[string]) (model.EventStatus, *apperrors.FieldError) {
	if fe := presence(field, in, "string", TypeString); fe != nil {
		return "", fe
	}
	if fe := check(field, in.Value, statusTag); fe != nil {
		return "", fe
	}
	status, _ := model.ParseEventStatus(in.Value)
	return status, nil
}

// CustomID validates an optional client-chosen identifier. supplied is false
// when the caller left it out and the server should generate one.
func CustomID(field string, in model.Optional[string]) (id string, supplied bool, fe *apperrors.FieldError) {
	if !in.Present {
		return "", false, nil
	}
	if in.Invalid {
		return "", true, newFieldError(field, "Input should be a valid string", TypeString)
	}
	if in.Null || strings.TrimSpace(in.Value) == "" {
		return "", true, newFieldError(field, "eventId cannot be empty", TypeEmpty)
	}
	return strings.TrimSpace(in.Value), true, nil
}

// Identifier checks a path identifier for get, update and delete.
func Identifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidArgument("Event ID cannot be empty")
	}
	return nil
}

// Limit resolves the list bound, defaulting to DefaultLimit.
func Limit(limit *int) (int, error) {
	if limit == nil {
		return DefaultLimit, nil
	}
	if err := validate.Var(*limit, fmt.Sprintf("min=%d,max=%d", MinLimit, MaxLimit)); err != nil {
		return 0, apperrors.InvalidArgument("Limit must be between %d and %d", MinLimit, MaxLimit)
	}
	return *limit, nil
}

// StatusFilter validates an optional list filter; empty means no filter.
func StatusFilter(token string) (model.EventStatus, error) {
	if token == "" {
		return "", nil
	}
	status, fe := Status(model.FieldStatus, model.Some(token))
	if fe != nil {
		return "", &apperrors.ValidationError{Errors: []apperrors.FieldError{*fe}}
	}
	return status, nil
}

// Create validates a whole creation payload, reporting every failing field.
// The returned id is empty when the server must generate one.
func Create(in model.EventCreate) (string, model.EventFields, error) {
	var (
		verr   apperrors.ValidationError
		fields model.EventFields
		fe     *apperrors.FieldError
	)

	id, _, fe := CustomID(model.FieldID, in.CustomID())
	verr.Add(fe)

	fields.Title, fe = Text(model.FieldTitle, in.Title, MaxTitleLength)
	verr.Add(fe)
	fields.Description, fe = Text(model.FieldDescription, in.Description, MaxDescriptionLength)
	verr.Add(fe)
	fields.Date, fe = Date(model.FieldDate, in.Date)
	verr.Add(fe)
	fields.Location, fe = Text(model.FieldLocation, in.Location, MaxLocationLength)
	verr.Add(fe)
	fields.Capacity, fe = Capacity(model.FieldCapacity, in.Capacity)
	verr.Add(fe)
	fields.Organizer, fe = Text(model.FieldOrganizer, in.Organizer, MaxOrganizerLength)
	verr.Add(fe)

	fields.Status = model.EventStatusDraft
	if in.Status.Present {
		fields.Status, fe = Status(model.FieldStatus, in.Status)
		verr.Add(fe)
	}

	if err := verr.ErrOrNil(); err != nil {
		return "", model.EventFields{}, err
	}
	return id, fields, nil
}

// presence reports a missing, null or wrongly typed value.
func presence[T any](field string, in model.Optional[T], expected, typ string) *apperrors.FieldError {
	switch {
	case !in.Present:
		return newFieldError(field, "Field required", TypeMissing)
	case in.Null:
		return newFieldError(field, "Field cannot be null", TypeNull)
	case in.Invalid:
		return newFieldError(field, "Input should be a valid "+expected, typ)
	}
	return nil
}

// wholeNumber parses an integral JSON number, saturating at the int64 bounds
// so that huge values fail the range check rather than the type check.
func wholeNumber(n json.Number) (int64, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	case f <= math.MinInt64:
		return math.MinInt64, true
	}
	return int64(f), true
}

// check runs a validator tag against a single value and formats the first failure.
func check(field string, value any, tag string) *apperrors.FieldError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return formatFieldError(field, verrs[0])
	}
	return newFieldError(field, err.Error(), "value_error")
}

func formatFieldError(field string, fe validator.FieldError) *apperrors.FieldError {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "max":
		if isString {
			return newFieldError(field, fmt.Sprintf("String should have at most %s characters", fe.Param()), TypeTooLong)
		}
		return newFieldError(field, fmt.Sprintf("Input should be less than or equal to %s", fe.Param()), TypeRange)
	case "min":
		if isString {
			return newFieldError(field, fmt.Sprintf("String should have at least %s characters", fe.Param()), TypeEmpty)
		}
		return newFieldError(field, fmt.Sprintf("Input should be greater than or equal to %s", fe.Param()), TypeRange)
	case "oneof":
		return newFieldError(field, "Input should be one of: "+strings.Join(strings.Fields(fe.Param()), ", "), TypeEnum)
	case "isodate":
		return newFieldError(field, "Invalid date format. Use ISO 8601 format (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)", TypeDateFormat)
	default:
		return newFieldError(field, fmt.Sprintf("%s is invalid", field), "value_error")
	}
}

func newFieldError(field, message, typ string) *apperrors.FieldError {
	return &apperrors.FieldError{Field: field, Message: message, Type: typ}
}
