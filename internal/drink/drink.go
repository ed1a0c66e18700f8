// Package drink defines the Drink entity, its public and detailed
// projections, and the request shapes accepted for creating and patching it.
package drink

import (
	"encoding/json"
	"fmt"
)

// Ingredient is one recipe entry.
type Ingredient struct {
	Color string `json:"color"`
	Name  string `json:"name"`
	Parts int    `json:"parts"`
}

// Recipe is an ordered list of ingredients.
type Recipe []Ingredient

// Drink is the persisted menu item. The recipe is stored as a JSON text
// blob and parsed on every access.
type Drink struct {
	ID     uint   `gorm:"primaryKey"`
	Title  string `gorm:"uniqueIndex;not null"`
	Recipe string `gorm:"type:text;not null"`
}

// TableName implements the GORM tabler interface.
func (Drink) TableName() string { return "drinks" }

// ShortIngredient is an ingredient with its name redacted.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public projection of a Drink.
type ShortDrink struct {
	ID     uint              `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the detailed projection of a Drink.
type LongDrink struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Recipe Recipe `json:"recipe"`
}

// Ingredients parses the stored recipe blob.
func (d *Drink) Ingredients() (Recipe, error) {
	var recipe Recipe
	if err := json.Unmarshal([]byte(d.Recipe), &recipe); err != nil {
		return nil, fmt.Errorf("decode recipe of drink %d: %w", d.ID, err)
	}
	return recipe, nil
}

// SetRecipe serializes recipe into the stored blob.
func (d *Drink) SetRecipe(recipe Recipe) error {
	if recipe == nil {
		recipe = Recipe{}
	}
	blob, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}
	d.Recipe = string(blob)
	return nil
}

// Short returns the public projection. A blob that cannot be parsed
// projects as an empty recipe.
func (d *Drink) Short() ShortDrink {
	recipe, _ := d.Ingredients()
	short := make([]ShortIngredient, 0, len(recipe))
	for _, ingredient := range recipe {
		short = append(short, ShortIngredient{Color: ingredient.Color, Parts: ingredient.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: short}
}

// Long returns the detailed projection. A blob that cannot be parsed
// projects as an empty recipe.
func (d *Drink) Long() LongDrink {
	recipe, err := d.Ingredients()
	if err != nil || recipe == nil {
		recipe = Recipe{}
	}
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}
