// Package dump renders decoded metadata declarations as the deterministic
// pretty-dump text consumed by golden-file comparisons.
//
// Output is three sections (Classes, Functions, Properties) followed by an
// "Ok" line. A dump without the trailing "Ok" is a failed or partial dump.
package dump
