// Package kmeans implements partitional clustering: interchangeable seeding
// strategies feeding a shared Lloyd relaxation loop.
//
// Seeders:
//
//   - KPlusPlus: distance-weighted (D²) sampling.
//   - FarthestPoint: deterministic Gonzalez traversal after the first pick.
//
// The refiner (Fit) alternates an assignment step and an update step until
// every center is unchanged or the iteration cap is reached. The update step
// is pluggable through UpdateRule; MeanUpdate is standard Lloyd, OldestUpdate
// moves each center to the mean of the members carrying the smallest
// non-zero ordering key.
package kmeans
