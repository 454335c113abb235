// Package ir is the tree model lowering passes work on.
//
// Nodes form a strict ownership tree. Each kind has a fixed, ordered set of
// child slots; AcceptChildren and TransformChildren walk those slots through
// exhaustive type switches so that adding a kind without handling it fails
// loudly. Cross references that are not ownership are stored as keys
// (CallableKey, source.FileID) and resolved through a Registry or an
// Interner.
//
// Mutation is single-threaded per compilation unit. Trees of independent
// units may be processed concurrently.
package ir
