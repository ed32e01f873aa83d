package io_test

import (
	"os"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/io"
)

func ExampleWriteJSON() {
	var set constraint.Set
	set.AddGroups(constraint.NewMirrorGroup("M3", "M4"))

	_ = io.WriteJSON(&set, os.Stdout)
	// Output:
	// [
	//     {
	//         "constraint": "GroupBlocks",
	//         "instances": [
	//             "M3",
	//             "M4"
	//         ],
	//         "name": "cm_M3_M4"
	//     }
	// ]
}
