package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns nil when data satisfies its `validate` tags.
	Validate(data any) error
}
