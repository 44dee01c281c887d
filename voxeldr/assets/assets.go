// Package assets bundles the sample model shown when no model is configured.
package assets

import _ "embed"

// SampleName is the asset name the bundled model is registered under.
const SampleName = "tree.txt"

//go:embed tree.txt
var Sample string
