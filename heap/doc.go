// Package heap provides the arena: one contiguous, monotonically growing
// byte region that the allocator in heap/alloc carves into blocks.
//
// # Overview
//
// The arena is the allocator's only external resource. It hands out raw,
// zero-initialized memory extensions through Append, the moral equivalent of
// sbrk: every grant is contiguous with and follows every prior grant, so
// block offsets handed out before a grow remain valid after it. The arena
// never shrinks and never relocates committed bytes in offset space.
//
// Two backends exist behind build tags:
//
//   - On linux, the arena reserves its full limit up front with an anonymous
//     private mapping (MAP_NORESERVE) and commits pages lazily as Append
//     advances the committed size. Growth is a bounds check, nothing more.
//   - Everywhere else, the arena is a plain byte slice that is reallocated
//     on Append. Addresses may move; offsets never do, and all bookkeeping
//     in heap/alloc is offset-based for exactly this reason.
//
// # Growth Failure
//
// Append fails with ErrLimit once the configured byte limit is reached. A
// failed Append installs nothing: the committed size and all existing bytes
// are untouched. Tests use a small limit to exercise exhaustion paths.
//
// # Thread Safety
//
// Arena instances are not thread-safe. Callers must serialize access
// externally, typically by serializing the owning allocator.
package heap
