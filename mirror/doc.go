// mirror wires the rewrite engine to real repositories: configuration,
// local clones of the source and destination, the bbolt backed checkpoint
// store, and the init/sync/transform/push operations the CLI exposes.
package mirror
