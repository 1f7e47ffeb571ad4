// Package symbols builds class symbols for the type system from two
// sources: declarations of compilation units (SourceClass) and stub index
// records describing compiled classes (ClassStub).
//
// A stub index is a TOML document of [[class]] tables holding binary names,
// access words and the class file signature strings of the class and its
// members. Signatures are parsed on first use; a malformed one is reported
// once and degrades the affected member to the error type. Decoded indexes
// can be cached on disk in msgpack form, keyed by the content digest.
//
// The Loader ties both together and serves as the registry's
// types.ClassResolver. The core library ships embedded (PlatformIndexes).
package symbols
