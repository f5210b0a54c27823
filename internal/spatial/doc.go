// Package spatial computes spatial statistics over particle positions
// observed in a single rectangular camera frame.
//
// The main entry point is [Analyze], which reports:
//
//   - quadrant occupancy around the frame midpoint
//   - mean position and per-axis population spread
//   - mean nearest-neighbour distance
//   - the distance expected under complete spatial randomness (CSR)
//   - the Clark-Evans style clustering index and its [Interpretation]
//
// # Nearest neighbours
//
// Small inputs are scanned pairwise. Inputs larger than the brute-force
// limit (see [WithBruteForceLimit]) are indexed in a k-d tree and queried
// concurrently; both paths return identical distances.
//
// # Coordinates
//
// Positions use image coordinates: x grows to the right and y grows
// downwards, so the "upper" quadrants hold y below the midpoint.
package spatial
