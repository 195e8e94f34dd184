// Package errors provides the structured error type returned when recipe
// data or resolution inputs fail validation.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeInvalidBuildTime,
//	    "build time must be positive",
//	    map[string]any{"item": "iron_plate", "build_time": 0.0},
//	)
//
// Callers recover the code with errors.As or the HasCode helper.
package errors
