package neardup_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/neardup"
	"github.com/hupe1980/neardup/source"
)

const exampleCorpus = `the quick brown fox jumps over the lazy dog
completely unrelated sentence here
the quick brown fox jumps over the lazy dog
`

func ExampleIndex_Ingest() {
	ix, err := neardup.New(neardup.WithNumPermutations(128), neardup.WithThreshold(0.5))
	if err != nil {
		panic(err)
	}
	defer ix.Close()

	report, err := ix.Ingest(context.Background(), source.Lines(strings.NewReader(exampleCorpus)))
	if err != nil {
		panic(err)
	}

	for _, id := range report.IDs {
		fmt.Println(id, report.Candidates[id])
	}
	fmt.Println("groups:", report.Groups())
	// Output:
	// 0 [2]
	// 1 []
	// 2 [0]
	// groups: [[0 2]]
}

func ExampleIndex_Ingest_streaming() {
	ix, err := neardup.New(neardup.WithNumPermutations(128))
	if err != nil {
		panic(err)
	}
	defer ix.Close()

	report, err := ix.Ingest(context.Background(),
		source.Lines(strings.NewReader(exampleCorpus)),
		neardup.WithOrder(neardup.OrderStreaming),
	)
	if err != nil {
		panic(err)
	}

	for _, id := range report.IDs {
		fmt.Println(id, report.Candidates[id])
	}
	// Output:
	// 0 []
	// 1 []
	// 2 [0]
}

func ExampleIndex_QueryThreshold() {
	ix, err := neardup.New(neardup.WithRetainSignatures())
	if err != nil {
		panic(err)
	}
	defer ix.Close()

	_ = ix.Insert(1, "the quick brown fox jumps over the lazy dog")
	_ = ix.Insert(2, "completely unrelated sentence here")

	matches, _ := ix.QueryThreshold("the quick brown fox jumps over the lazy dog", 0.9)
	for _, m := range matches {
		fmt.Printf("%d %.2f\n", m.ID, m.Similarity)
	}
	// Output: 1 1.00
}

func ExampleIndex_Params() {
	cfg := neardup.DefaultConfig()
	ix, err := neardup.NewFromConfig(cfg)
	if err != nil {
		panic(err)
	}

	p := ix.Params()
	fmt.Println(ix.K(), p)
	// Output: 128 b=32 r=4 crossover=0.3826
}
