package report

import "errors"

var (
	ErrInvalidSchedule = errors.New("schedule needs an email and a frequency of daily, weekly or monthly")
	ErrUnknownProduct  = errors.New("unknown product id")
)
