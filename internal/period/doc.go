// Package period defines the fixed calendar buckets (months) that day entries
// are filed under.
//
// A Table is built once and passed to the components that need it (title
// parsing, persistence, audio naming); nothing reads period data from
// package-level state.
package period
