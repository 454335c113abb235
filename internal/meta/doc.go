// Package meta decodes compiled declaration metadata.
//
// A compilation-unit fragment carries three lookup tables and a list of raw
// declaration records:
//
//   - StringTable: index -> text.
//   - QualifiedNameTable: index -> {short name string index, parent index}.
//     Walking parents from a leaf reaches NoParent and yields a dotted path.
//   - TypeTable: index -> {class name qualified index, nullability, type
//     parameter name}.
//
// Raw records (Class, Function, Property, Constructor, TypeParameter,
// ValueParameter) hold only integer IDs into those tables plus a packed Flags
// word. They are kept serialization-faithful: nothing resolved is ever stored
// back into them. Resolution happens in Decoder, which produces the *Decl
// values consumed by the dump printer.
//
// Two wire generations exist. SchemaIndexed is canonical; SchemaInline embeds
// type data into each declaration and is converted by MigrateInline into the
// indexed form before any decoding takes place.
//
// Everything in this package is read-only after construction and safe to use
// from many goroutines at once.
package meta
