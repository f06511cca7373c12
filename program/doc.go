// Package program defines the resolved form of a Kitten program: the type
// lattice, class types with their declared members, member signatures, and
// the basic-block intermediate code that method and constructor bodies are
// lowered into.
//
// Signatures are canonical: the resolution phase creates exactly one
// signature object per declared member, so two signatures denote the same
// member iff they are the same pointer. Blocks are likewise identity nodes;
// two blocks with the same instructions are still distinct graph nodes.
package program
