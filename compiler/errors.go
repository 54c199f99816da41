package compiler

import (
	"errors"
	"fmt"
)

// ErrAssignImpossible is returned when the palette assignment search
// exhausts every branch without finding a packing.
var ErrAssignImpossible = errors.New("compiler: no valid palette assignment exists")

// TooManyColorsError is returned when the tileset uses more distinct
// hardware colors than the available palettes can hold.
type TooManyColorsError struct {
	Got   int
	Limit int
}

func (e *TooManyColorsError) Error() string {
	return fmt.Sprintf("compiler: too many unique colors: %d > %d", e.Got, e.Limit)
}

// BudgetExceededError is returned when the assignment search performs more
// recursive steps than the configured budget allows.
type BudgetExceededError struct {
	Budget int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("compiler: palette assignment exceeded recursion budget of %d", e.Budget)
}

// TooManyTilesError is returned when the deduplicated tile count exceeds the
// capacity for the compilation mode.
type TooManyTilesError struct {
	Got int
	Cap int
}

func (e *TooManyTilesError) Error() string {
	return fmt.Sprintf("compiler: too many tiles: %d > %d", e.Got, e.Cap)
}

// TooManyMetatilesError is returned when the authored input holds more
// metatiles than the capacity for the compilation mode.
type TooManyMetatilesError struct {
	Got int
	Cap int
}

func (e *TooManyMetatilesError) Error() string {
	return fmt.Sprintf("compiler: input metatile count %d exceeded limit %d", e.Got, e.Cap)
}

// PrimaryMismatchError is returned when a secondary compilation is handed a
// primary tileset whose palette count disagrees with the configuration.
type PrimaryMismatchError struct {
	Got      int
	Expected int
}

func (e *PrimaryMismatchError) Error() string {
	return fmt.Sprintf("compiler: paired primary has %d palettes, config expects %d", e.Got, e.Expected)
}

// internalErr marks conditions that indicate a compiler bug rather than bad
// input.
func internalErr(format string, args ...interface{}) error {
	return fmt.Errorf("compiler: internal: "+format, args...)
}
