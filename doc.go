// gittransform mirrors the history of a git repository into another
// repository, applying a per-commit transformation: a path filter, a fixed
// content overlay, and an optional user hook.
//
// The rewrite is incremental. Every visited source commit is recorded in a
// [CheckpointStore], and later runs only process commits that have no
// checkpoint yet, producing byte-identical results to a from-scratch run.
//
// See [ResolveChain], [Stager] and [Replayer] for details.
package gittransform
