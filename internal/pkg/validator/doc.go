// Package validator checks usecase inputs against struct tags and reports
// failures as a map keyed by snake_case field name.
package validator
