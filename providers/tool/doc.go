// Package tool turns typed Go functions into named, self-describing tools an
// automated agent can discover and call with JSON arguments.
//
// [NewTool] wraps a function and derives JSON schemas for its input and
// output; [Catalog] is a thread-safe registry of such tools.
package tool
