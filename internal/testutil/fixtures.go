package testutil

import (
	"time"

	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/google/uuid"
)

// Dish options
type DishOption func(*dish.Stored)

func WithName(name string) DishOption {
	return func(d *dish.Stored) {
		d.Name = name
	}
}

func WithCreatedAt(t time.Time) DishOption {
	return func(d *dish.Stored) {
		d.CreatedAt = t
	}
}

func NewTestPizza(opts ...DishOption) *dish.Stored {
	slices, diameter := 8, 32.5
	return newTestDish(dish.TypePizza, func(d *dish.Stored) {
		d.NoOfSlices = &slices
		d.Diameter = &diameter
	}, opts...)
}

func NewTestSoup(opts ...DishOption) *dish.Stored {
	spiciness := 5
	return newTestDish(dish.TypeSoup, func(d *dish.Stored) {
		d.SpicinessScale = &spiciness
	}, opts...)
}

func NewTestSandwich(opts ...DishOption) *dish.Stored {
	bread := 2
	return newTestDish(dish.TypeSandwich, func(d *dish.Stored) {
		d.SlicesOfBread = &bread
	}, opts...)
}

func newTestDish(t dish.Type, attrs DishOption, opts ...DishOption) *dish.Stored {
	d := &dish.Stored{
		ID:              uuid.New().String(),
		Name:            "Test " + t.Label(),
		PreparationTime: "00:15:00",
		Type:            t,
		CreatedAt:       time.Now().UTC(),
	}
	attrs(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}
