// Package errors provides the classified error primitives used across docsmith.
//
// A ClassifiedError carries a category (what kind of failure), a severity (how far the
// failure reaches: one reference, one page, or the whole run) and structured context such
// as the page or template involved. Errors are constructed with the fluent builder:
//
//	err := errors.NewError(errors.CategoryTemplate, "template evaluation failed").
//		WithContext("template", "classpage.html").
//		Build()
//
// The CLIErrorAdapter maps classified errors to process exit codes.
package errors
