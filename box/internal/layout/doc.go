// Package layout classifies Go types by where their pointer words sit.
//
// The collector scans memory precisely, so a payload may only be placed in
// inline box storage when its pointer words land on pointer-typed slots and
// its scalar words do not. Classify reports the leading run of pointer words
// and whether any pointer word lies outside that run.
//
// This package is internal to the box package.
package layout
