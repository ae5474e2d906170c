package mandala

import "fmt"

// ConfigError reports an out-of-range or malformed configuration field.
// It is always detected before any page is dispatched.
type ConfigError struct {
	Field  string // config key, in its file/flag spelling
	Value  any    // offending value
	Reason string // human-readable constraint
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v (%s)", e.Field, e.Value, e.Reason)
}

// RenderError reports that rasterization of a specific page failed.
// A single RenderError aborts the whole run; partial documents are never
// produced.
type RenderError struct {
	Page int   // 1-based design index
	Err  error // underlying cause
}

// Error returns the formatted error message including the failing page.
func (e *RenderError) Error() string {
	return fmt.Sprintf("page %d: render failed: %v", e.Page, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error { return e.Err }
