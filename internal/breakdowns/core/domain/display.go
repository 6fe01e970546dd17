package domain

type DisplayHintReason string

const (
	DisplayHintBreakdownsAdded   DisplayHintReason = "breakdowns_added"
	DisplayHintBreakdownsCleared DisplayHintReason = "breakdowns_cleared"
	DisplayHintShapeChanged      DisplayHintReason = "shape_changed"
)

// DisplayHint tells the insight owner its display may need to change. The
// owner picks the display; the hint only says what crossed a boundary.
type DisplayHint struct {
	Reason        DisplayHintReason `json:"reason"`
	PreviousCount int               `json:"previous_count"`
	NextCount     int               `json:"next_count"`
	Multiple      bool              `json:"multiple"`
}
