package types

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of check-in, check-out and departure dates.
const DateLayout = "2006-01-02"

// SearchQuery holds hotel search parameters.
type SearchQuery struct {
	Destination string `json:"destination" validate:"required_without=RegionID"`
	RegionID    string `json:"region_id,omitempty"`
	CheckIn     string `json:"checkin" validate:"required,datetime=2006-01-02"`
	Nights      int    `json:"nights" validate:"required,min=1"`
	Adults      int    `json:"adults" validate:"required,min=1"`
	Currency    string `json:"currency"`
	Residency   string `json:"residency"`
	Language    string `json:"language"`
	ResultCap   int    `json:"hotels_limit" validate:"gte=0"`
}

// CheckOut returns the check-in date plus the number of nights, or "" when the
// query has no valid check-in or nights.
func (q SearchQuery) CheckOut() string {
	if q.Nights < 1 {
		return ""
	}
	in, err := time.Parse(DateLayout, q.CheckIn)
	if err != nil {
		return ""
	}
	return in.AddDate(0, 0, q.Nights).Format(DateLayout)
}

// Guest is one room occupancy.
type Guest struct {
	Adults int `json:"adults"`
}

// Guests returns the single-room occupancy of the query.
func (q SearchQuery) Guests() []Guest {
	return []Guest{{Adults: q.Adults}}
}

// NightsBetween returns the number of nights between two dates, or 0 when the
// dates are invalid or not in order.
func NightsBetween(checkin, checkout string) int {
	a, err := time.Parse(DateLayout, checkin)
	if err != nil {
		return 0
	}
	b, err := time.Parse(DateLayout, checkout)
	if err != nil {
		return 0
	}
	n := int(math.Round(b.Sub(a).Hours() / 24))
	if n <= 0 {
		return 0
	}
	return n
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON field names in validation messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks struct tags and converts failures into a *ValidationError.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", fe.Field())
	case "min", "gte":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s must be a positive integer", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
