package drink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
)

const domainDrink = "drink"

var errNullValue = errors.New("null value")

// Top-level body keys.
const (
	keyTitle  = "title"
	keyRecipe = "recipe"
)

var (
	drinkKeys      = []string{keyTitle, keyRecipe}
	ingredientKeys = []string{"color", "name", "parts"}
)

// Client-facing validation messages.
var (
	msgDrinkKeys      = fmt.Sprintf("Request body must include the keys: %s", quoteKeys(drinkKeys, `"`))
	msgIngredientKeys = fmt.Sprintf("Each recipe item must include the keys: %s", quoteKeys(ingredientKeys, `"`))
)

const (
	msgNotObject   = "Request body must be a JSON object."
	msgTitle       = "title must be a non-empty string"
	msgRecipeList  = "recipe must be a list of ingredients"
	msgColorString = "recipe item color must be a string"
	msgNameString  = "recipe item name must be a string"
	msgPartsInt    = "recipe item parts must be an integer"
)

// ParseCreate validates a create body and returns the unsaved Drink.
// The body must have exactly the keys title and recipe. A recipe given as
// a single mapping is normalized to a one-element list.
func ParseCreate(body []byte) (*Drink, error) {
	const op = "ParseCreate"

	fields, ok := decodeObject(body)
	if !ok || !hasExactKeys(fields, drinkKeys) {
		return nil, ierrors.Invalid(domainDrink, op, msgDrinkKeys)
	}

	title, err := parseTitle(op, fields[keyTitle])
	if err != nil {
		return nil, err
	}

	recipe, err := parseRecipe(op, fields[keyRecipe], true)
	if err != nil {
		return nil, err
	}

	d := &Drink{Title: title}
	if err := d.SetRecipe(recipe); err != nil {
		return nil, ierrors.New(domainDrink, op, ierrors.ErrInternal, err)
	}
	return d, nil
}

// Patch is a validated partial update. Nil fields were absent from the body.
type Patch struct {
	Title  *string
	Recipe *Recipe
}

// ParsePatch validates an update body. Its keys must be a subset of title
// and recipe. The recipe, when present, must already be a list.
func ParsePatch(body []byte) (*Patch, error) {
	const op = "ParsePatch"

	fields, ok := decodeObject(body)
	if !ok {
		return nil, ierrors.Invalid(domainDrink, op, msgNotObject)
	}

	var unknown []string
	for key := range fields {
		if key != keyTitle && key != keyRecipe {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, ierrors.Invalid(domainDrink, op,
			fmt.Sprintf("Request body must not include the parameters (keys): %s", quoteKeys(unknown, "'")))
	}

	patch := &Patch{}
	if raw, ok := fields[keyTitle]; ok {
		title, err := parseTitle(op, raw)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if raw, ok := fields[keyRecipe]; ok {
		recipe, err := parseRecipe(op, raw, false)
		if err != nil {
			return nil, err
		}
		patch.Recipe = &recipe
	}
	return patch, nil
}

// Apply overwrites the fields present in the patch.
func (p *Patch) Apply(d *Drink) error {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Recipe != nil {
		if err := d.SetRecipe(*p.Recipe); err != nil {
			return ierrors.New(domainDrink, "Apply", ierrors.ErrInternal, err)
		}
	}
	return nil
}

// Columns returns the stored columns the patch writes, keyed by column
// name. Fields absent from the body are left out so they are never
// written back.
func (p *Patch) Columns() (map[string]any, error) {
	columns := make(map[string]any, 2)
	if p.Title != nil {
		columns[keyTitle] = *p.Title
	}
	if p.Recipe != nil {
		var d Drink
		if err := d.SetRecipe(*p.Recipe); err != nil {
			return nil, ierrors.New(domainDrink, "Columns", ierrors.ErrInternal, err)
		}
		columns[keyRecipe] = d.Recipe
	}
	return columns, nil
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.Title == nil && p.Recipe == nil
}

// decodeObject decodes body as a JSON object. The raw values are kept so
// each field can be type-checked on its own.
func decodeObject(body []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func hasExactKeys(fields map[string]json.RawMessage, keys []string) bool {
	if len(fields) != len(keys) {
		return false
	}
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return false
		}
	}
	return true
}

func parseTitle(op string, raw json.RawMessage) (string, error) {
	var title string
	if err := decodeValue(raw, &title); err != nil || strings.TrimSpace(title) == "" {
		return "", ierrors.Invalid(domainDrink, op, msgTitle)
	}
	return title, nil
}

func parseRecipe(op string, raw json.RawMessage, normalize bool) (Recipe, error) {
	trimmed := bytes.TrimSpace(raw)
	if normalize && len(trimmed) > 0 && trimmed[0] == '{' {
		trimmed = append(append([]byte{'['}, trimmed...), ']')
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || items == nil {
		return nil, ierrors.Invalid(domainDrink, op, msgRecipeList)
	}

	recipe := make(Recipe, 0, len(items))
	for _, item := range items {
		if item == nil || !hasExactKeys(item, ingredientKeys) {
			return nil, ierrors.Invalid(domainDrink, op, msgIngredientKeys)
		}

		var ingredient Ingredient
		if err := decodeValue(item["color"], &ingredient.Color); err != nil {
			return nil, ierrors.Invalid(domainDrink, op, msgColorString)
		}
		if err := decodeValue(item["name"], &ingredient.Name); err != nil {
			return nil, ierrors.Invalid(domainDrink, op, msgNameString)
		}
		parts, ok := parseParts(item["parts"])
		if !ok {
			return nil, ierrors.Invalid(domainDrink, op, msgPartsInt)
		}
		ingredient.Parts = parts
		recipe = append(recipe, ingredient)
	}
	return recipe, nil
}

// parseParts accepts any JSON number with an integral value, so 2 and 2.0
// are both two parts.
func parseParts(raw json.RawMessage) (int, bool) {
	var n float64
	if err := decodeValue(raw, &n); err != nil {
		return 0, false
	}
	if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// decodeValue decodes a single JSON value into v, rejecting null.
func decodeValue(raw json.RawMessage, v any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errNullValue
	}
	return json.Unmarshal(raw, v)
}

// quoteKeys renders keys as a comma separated list, each wrapped in quote.
func quoteKeys(keys []string, quote string) string {
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = quote + key + quote
	}
	return strings.Join(quoted, ", ")
}
