package levy_test

import (
	"fmt"

	"github.com/cwbudde/algo-levy/levy"
)

func ExampleParams_TruncationSize() {
	p := levy.Params{Alpha: 1, C: 10, SigmaW2: 1, Horizon: 100}
	fmt.Printf("%.4f\n", p.TruncationSize(1))

	// Output:
	// 0.1000
}

func ExampleParseNoiseCase() {
	nc, err := levy.ParseNoiseCase("Gaussian")
	if err != nil {
		panic(err)
	}
	fmt.Println(nc)

	// Output:
	// gaussian
}
