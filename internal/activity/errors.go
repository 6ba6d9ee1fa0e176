package activity

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDegenerateRoute = errors.New("route distance is zero, draw a longer route")
	ErrEncoding        = errors.New("encoding failed")
)
