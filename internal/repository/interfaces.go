package repository

import (
	"context"

	"github.com/alexanderramin/dishform/internal/dish"
)

type DishRepo interface {
	Create(ctx context.Context, d *dish.Stored) error
	GetByID(ctx context.Context, id string) (*dish.Stored, error)
	List(ctx context.Context, limit int) ([]*dish.Stored, error)
	Count(ctx context.Context) (int, error)
}
