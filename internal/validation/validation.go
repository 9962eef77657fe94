// Package validation runs struct validation on decoded request payloads and
// translates validator errors into errs.FieldError values.
package validation
