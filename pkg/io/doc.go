// Package io provides JSON import and export of layout constraints.
//
// # Overview
//
// Detected constraints are handed to an analog placer as a single JSON array.
// Each element is a record tagged by its "constraint" field:
//
//	[
//	    {
//	        "constraint": "SymmetricBlocks",
//	        "pairs": [["M1", "M2"]],
//	        "direction": "V"
//	    },
//	    {
//	        "constraint": "GroupBlocks",
//	        "instances": ["M3", "M4"],
//	        "name": "cm_M3_M4"
//	    }
//	]
//
// Symmetry records come first, in detection order, followed by group records.
// Symmetry names are internal and are not exported.
//
// # Export
//
// Use [ExportJSON] to write a constraint set to a file, or [WriteJSON] to
// write to any io.Writer. Output is indented with four spaces. An empty set
// exports as an empty array, never as null. Export fails only when the
// destination cannot be created or written.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode an exported array back into a
// [constraint.Set]. The result cache and the inspect command use them. Unknown
// record kinds are rejected.
//
// # Concurrency
//
// All functions are safe to call concurrently as long as the set being
// exported is not modified at the same time.
package io
