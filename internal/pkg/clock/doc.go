// Package clock wraps time.Now behind Clocker so callers can pin the current
// instant in tests. TOTP windows are computed from it.
package clock
