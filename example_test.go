package songclust_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/dataset"
)

// ExampleKMeans seeds with Gonzalez from a fixed first center and refines
// with Lloyd iterations.
func ExampleKMeans() {
	ds := dataset.MustNew([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}})

	res, err := songclust.KMeans(context.Background(), ds, songclust.KMeansConfig{
		K:          2,
		Seeder:     songclust.Gonzalez,
		FixedStart: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("seeds:", res.Seeds)
	fmt.Println("assignment:", res.Assignment)
	fmt.Println("centers:", res.Centers)
	fmt.Println("inertia:", res.Inertia)
	// Output:
	// seeds: [0 3]
	// assignment: [0 0 1 1]
	// centers: [[0 0.5] [10 10.5]]
	// inertia: 0.25
}

// ExampleAgglomerate merges the two closest clusters until two remain.
func ExampleAgglomerate() {
	ds := dataset.MustNew([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}})

	p, err := songclust.Agglomerate(context.Background(), ds, 2, songclust.SingleLinkage)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(p.Clusters)
	fmt.Println(p.Labels)
	// Output:
	// [[0 1] [2 3]]
	// [0 0 1 1]
}

// ExampleMinHash_GetSimilarity compares stored token sets.
func ExampleMinHash_GetSimilarity() {
	mh, err := songclust.NewMinHash(64, 1<<32)
	if err != nil {
		log.Fatal(err)
	}

	err = mh.Run(context.Background(), [][]string{
		{"a", "b", "c"},
		{"c", "b", "a"},
	})
	if err != nil {
		log.Fatal(err)
	}

	s, _ := mh.GetSimilarity(0, 1)
	fmt.Println(s)
	// Output: 1
}
