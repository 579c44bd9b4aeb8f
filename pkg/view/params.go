package view

// Special dimension values for [Params.Width] and [Params.Height].
const (
	// MatchParent fills the space the parent has left after margins.
	MatchParent = -1
	// WrapContent sizes a leaf to its intrinsic size and a container to
	// the extent of its children.
	WrapContent = -2
)

// Margin is the space kept around a node inside its parent.
type Margin struct {
	Left, Top, Right, Bottom int
}

// Params are a node's layout parameters.
type Params struct {
	Width  int
	Height int
	Margin Margin
}

// Clone returns a copy of p. Params is a value type; Clone exists so call
// sites that derive new parameters read as such.
func (p Params) Clone() Params { return p }

// WithMargin returns a copy of p with the margin replaced.
func (p Params) WithMargin(left, top, right, bottom int) Params {
	p.Margin = Margin{Left: left, Top: top, Right: right, Bottom: bottom}
	return p
}

// FixedParams returns parameters with fixed pixel dimensions and no margin.
func FixedParams(width, height int) Params {
	return Params{Width: width, Height: height}
}

// WrapParams returns wrap-content parameters with no margin.
func WrapParams() Params {
	return Params{Width: WrapContent, Height: WrapContent}
}

// MatchParams returns match-parent parameters with no margin.
func MatchParams() Params {
	return Params{Width: MatchParent, Height: MatchParent}
}
