package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalogo/internal/models"
)

var validate = validator.New()

// FieldErrors collects every invalid field found in a product payload.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *FieldErrors) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

// ProductFromPayload checks a candidate payload against the catalog rules and
// returns the normalized product: name trimmed, price rounded to two decimal
// places. Every rule is evaluated so the caller sees all violations at once,
// not just the first one. It performs no I/O.
func ProductFromPayload(payload map[string]interface{}) (*models.Product, error) {
	fieldErrs := &FieldErrors{}

	name := ""
	if v, ok := payload["name"].(string); ok {
		name = strings.TrimSpace(v)
	}
	if err := validate.Var(name, "required,max=255"); err != nil {
		fieldErrs.add("name", "must be a non-empty string of at most 255 characters")
	}

	price, ok := parsePrice(payload["price"])
	switch {
	case !ok:
		fieldErrs.add("price", "must be a non-negative number")
	case price.IsNegative():
		fieldErrs.add("price", "must not be negative")
	}

	description := ""
	if v, ok := payload["description"].(string); ok {
		description = v
	}

	if len(fieldErrs.Fields) > 0 {
		return nil, fieldErrs
	}

	return &models.Product{
		Name:        name,
		Price:       price.Round(2),
		Description: description,
	}, nil
}

// parsePrice accepts the JSON representations a price can arrive as: a number,
// or a numeric string. Anything else is rejected.
func parsePrice(v interface{}) (decimal.Decimal, bool) {
	switch p := v.(type) {
	case float64:
		return decimal.NewFromFloat(p), true
	case int:
		return decimal.NewFromInt(int64(p)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}
