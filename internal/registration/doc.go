// Package registration places every scanner of a report into one global
// frame and merges their beacons into a single map.
//
// TryRegister searches the 24 rotations and every anchor/candidate point
// pairing for an alignment that makes at least the overlap threshold of
// beacons coincide. Register drives TryRegister over a shrinking worklist
// until every scanner is placed, or fails with a *StalledError when the
// remaining scanners cannot be reached. The Map it returns answers the
// beacon count and scanner spread questions.
package registration
