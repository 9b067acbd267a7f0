// Package flowgraph renders the participant flow as a Graphviz node-link
// diagram.
//
// This is an alternative view of the same resolved content the box diagram
// uses: each templated cell becomes a node labelled with its count, the
// exclusion layer becomes note-shaped nodes listing the reason breakdown,
// and edges follow the direction of flow. Layout is delegated to Graphviz,
// so the grid geometry does not apply here.
package flowgraph
