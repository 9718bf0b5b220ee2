// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer recycling for the echo reactor. Chunks carry pending output for
// connections whose socket pushed back; see chunk.go.
package pool
