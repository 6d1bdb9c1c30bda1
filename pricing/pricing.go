// Package pricing turns a meal plan into a priced quote using a meal-count tier table.
package pricing

import (
	"errors"
	"fmt"
	"os"

	"github.com/Kariqs/mealplan-api/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrMealCount   = errors.New("meal count is outside the allowed range")
	ErrPortionSize = errors.New("unknown portion size")
	ErrLargeMeals  = errors.New("large meal count must be between 1 and meal count - 1 for mixed plans")
)

type Tier struct {
	MinMeals     int   `json:"minMeals" yaml:"min_meals"`
	PerMealCents int64 `json:"perMealCents" yaml:"per_meal_cents"`
}

type Table struct {
	Currency            string `json:"currency" yaml:"currency"`
	LargeSurchargeCents int64  `json:"largeSurchargeCents" yaml:"large_surcharge_cents"`
	MinMeals            int    `json:"minMeals" yaml:"min_meals"`
	MaxMeals            int    `json:"maxMeals" yaml:"max_meals"`
	Tiers               []Tier `json:"tiers" yaml:"tiers"`
}

type Plan struct {
	MealCount   int    `json:"mealCount" binding:"required"`
	PortionSize string `json:"portionSize" binding:"required"`
	LargeMeals  int    `json:"largeMeals"`
}

type Quote struct {
	Currency      string `json:"currency"`
	MealCount     int    `json:"mealCount"`
	PortionSize   string `json:"portionSize"`
	LargeMeals    int    `json:"largeMeals"`
	TierMinMeals  int    `json:"tierMinMeals"`
	PerMealCents  int64  `json:"perMealCents"`
	SubtotalCents int64  `json:"subtotalCents"`
	DiscountCents int64  `json:"discountCents"`
	TotalCents    int64  `json:"totalCents"`
}

// DefaultTable is the EGP price list used when no override file is configured.
func DefaultTable() *Table {
	return &Table{
		Currency:            "EGP",
		LargeSurchargeCents: 4000,
		MinMeals:            5,
		MaxMeals:            30,
		Tiers: []Tier{
			{MinMeals: 5, PerMealCents: 16500},
			{MinMeals: 10, PerMealCents: 15500},
			{MinMeals: 15, PerMealCents: 14500},
			{MinMeals: 20, PerMealCents: 13500},
		},
	}
}

// LoadTable reads a YAML price table. An empty path yields the default table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse pricing file: %w", err)
	}
	if table.Currency == "" {
		table.Currency = "EGP"
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

func (t *Table) Validate() error {
	if len(t.Tiers) == 0 {
		return errors.New("pricing table has no tiers")
	}
	if t.MinMeals <= 0 || t.MaxMeals < t.MinMeals {
		return fmt.Errorf("invalid meal range %d-%d", t.MinMeals, t.MaxMeals)
	}
	if t.Tiers[0].MinMeals != t.MinMeals {
		return fmt.Errorf("first tier must start at %d meals", t.MinMeals)
	}
	if t.LargeSurchargeCents < 0 {
		return errors.New("large surcharge cannot be negative")
	}
	for i, tier := range t.Tiers {
		if tier.PerMealCents <= 0 {
			return fmt.Errorf("tier %d has a non-positive price", i)
		}
		if i == 0 {
			continue
		}
		prev := t.Tiers[i-1]
		if tier.MinMeals <= prev.MinMeals {
			return fmt.Errorf("tier %d is not sorted by meal count", i)
		}
		if tier.PerMealCents > prev.PerMealCents {
			return fmt.Errorf("tier %d is more expensive than tier %d", i, i-1)
		}
	}
	return nil
}

// TierFor returns the tier that applies to mealCount.
func (t *Table) TierFor(mealCount int) (Tier, error) {
	if mealCount < t.MinMeals || mealCount > t.MaxMeals {
		return Tier{}, fmt.Errorf("%w: %d (allowed %d-%d)", ErrMealCount, mealCount, t.MinMeals, t.MaxMeals)
	}
	tier := t.Tiers[0]
	for _, candidate := range t.Tiers[1:] {
		if candidate.MinMeals > mealCount {
			break
		}
		tier = candidate
	}
	return tier, nil
}

// Quote prices a plan. The discount is measured against the list price of the first tier.
func (t *Table) Quote(plan Plan) (Quote, error) {
	tier, err := t.TierFor(plan.MealCount)
	if err != nil {
		return Quote{}, err
	}

	var largeCount int
	switch plan.PortionSize {
	case models.PortionStandard:
	case models.PortionLarge:
		largeCount = plan.MealCount
	case models.PortionMixed:
		if plan.LargeMeals <= 0 || plan.LargeMeals >= plan.MealCount {
			return Quote{}, ErrLargeMeals
		}
		largeCount = plan.LargeMeals
	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrPortionSize, plan.PortionSize)
	}

	count := int64(plan.MealCount)
	list := t.Tiers[0].PerMealCents
	surcharge := int64(largeCount) * t.LargeSurchargeCents

	perMeal := tier.PerMealCents
	if plan.PortionSize == models.PortionLarge {
		perMeal += t.LargeSurchargeCents
	}

	subtotal := count*list + surcharge
	discount := count * (list - tier.PerMealCents)

	return Quote{
		Currency:      t.Currency,
		MealCount:     plan.MealCount,
		PortionSize:   plan.PortionSize,
		LargeMeals:    largeCount,
		TierMinMeals:  tier.MinMeals,
		PerMealCents:  perMeal,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
	}, nil
}
