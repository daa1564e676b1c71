// Package geom holds the exact integer geometry used to register scanners:
// Point3 values, the 24 proper rotations of the cube, scanner-local clouds
// and the global beacon set.
//
// Nothing in this package uses floating point for the geometry itself.
// gonum matrices are only built to check the rotation table.
package geom
