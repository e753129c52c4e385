package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-levy/filter/resample"
)

func ExampleSystematicFromOffset() {
	idx, err := resample.SystematicFromOffset([]float64{0.1, 0.2, 0.3, 0.4}, 10, 0.05)
	if err != nil {
		panic(err)
	}
	fmt.Println(idx)

	// Output:
	// [0 1 1 2 2 2 3 3 3 3]
}
