package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-augment/dsp/resample"
)

func ExampleNewForRates() {
	c, err := resample.NewForRates(22050, 16000)
	if err != nil {
		panic(err)
	}
	up, down := c.Ratio()
	fmt.Println(up, down, c.OutputLen(22050))
	// Output: 320 441 16000
}
