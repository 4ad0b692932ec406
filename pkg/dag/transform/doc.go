// Package transform derives views of a DAG that renderers and reports need.
//
// # Transitive Reduction
//
// [TransitiveReduction] keeps only the declared edges to direct
// dependencies. If A→B and B→C exist, a declared A→C is redundant and left
// out. [TransitiveEdges] returns the complement, so renderers can draw the
// elided edges differently.
//
// # Levels
//
// [Levels] assigns every node the length of its longest dependency chain
// down to the ground node. It is the row a node would take in a layered
// drawing and a lower bound on its floor in a tower.
package transform
