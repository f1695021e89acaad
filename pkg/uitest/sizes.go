package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Terminal sizes used by model tests.
var (
	// Compact is the classic 80x24 terminal.
	Compact = Size{Width: 80, Height: 24}
	// Wide is a large 160x50 terminal.
	Wide = Size{Width: 160, Height: 50}
	// Cramped is too small to fit a 6x4 grid with its selectors.
	Cramped = Size{Width: 60, Height: 8}
)
