// Package scanner reads and writes scanner reports: blocks of beacon
// coordinates, one block per scanner, each in that scanner's own frame.
//
//	--- scanner 0 ---
//	404,-588,-901
//	528,-643,409
//
//	--- scanner 1 ---
//	686,422,578
//
// It also generates synthetic reports with known ground truth.
package scanner
