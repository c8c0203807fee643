package kre

// Pos is a source position in the specification file, attached to every RE
// node for diagnostics (§3: "Each carries a unique id... and a source
// position").
type Pos struct {
	Row int
	Col int
}
