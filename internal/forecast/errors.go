package forecast

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is the sentinel matched by errors.Is when a caller
// supplies fewer historical points than the engine minimum.
var ErrInsufficientData = errors.New("insufficient historical data")

// InsufficientDataError reports how short the supplied series was.
type InsufficientDataError struct {
	Got  int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient historical data: need at least %d points, got %d", e.Need, e.Got)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
