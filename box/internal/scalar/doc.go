// Package scalar defines the closed set of scalar kinds a box converts
// between and the conversion table used for relaxed scalar extraction.
//
// Only Go's predeclared bool and numeric types are scalar kinds. Named types
// built on them (type Color uint8) are distinct and never convert.
//
// Conversions follow the language's value conversion rules: integers wrap on
// narrowing, floats truncate toward zero when converted to integers, and
// float narrowing rounds. No overflow is reported.
//
// This package is internal to the box package.
package scalar
