package render

const (
	// Display values
	MissingValue = "<none>"
	NAValue      = "n/a"
	Blank        = ""

	// Selection markers
	CheckedMark   = "[x]"
	UncheckedMark = "[ ]"

	// Sort indicators
	AscIndicator  = "↑"
	DescIndicator = "↓"
)
