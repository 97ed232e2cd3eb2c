// Package postprocessors holds processing steps applied to extracted text
// before it is stored.
package postprocessors
