package catalog

import "errors"

var (
	ErrFoodNotFound = errors.New("food not found")
	ErrInvalidFood  = errors.New("food requires a name, a category and a positive price")
)
