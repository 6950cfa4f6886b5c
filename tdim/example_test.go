package tdim_test

import (
	"fmt"

	"github.com/lvlath-tract/tract/tdim"
)

// Example demonstrates building a streaming-axis expression and folding
// it back down to its canonical form.
func Example() {
	halved, err := tdim.Div(tdim.Add(tdim.Stream(), tdim.Val(23)), 2)
	if err != nil {
		panic(err)
	}
	shifted := tdim.Sub(halved, tdim.Val(1))

	v, err := tdim.EvalWith(shifted, map[string]int32{"S": 9})
	if err != nil {
		panic(err)
	}
	fmt.Println(shifted)
	fmt.Println(v)
	// Output:
	// (S+21)/2
	// 15
}
