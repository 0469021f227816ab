package normalize

import "github.com/s0up4200/listnode/result"

// Indicator fills
const (
	FillGreen  = "green"
	FillRed    = "red"
	FillYellow = "yellow"
	FillGrey   = "grey"
)

// Indicator shapes
const (
	ShapeDot  = "dot"
	ShapeRing = "ring"
)

// Indicator is the visible status of a node
type Indicator struct {
	Fill  string `json:"fill,omitempty"`
	Shape string `json:"shape,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Labels name the outcome of an operation in the status text
type Labels struct {
	Success string
	Failure string
}

// Status builds the final indicator for a result
func Status[T any](res result.Result[T], labels Labels) Indicator {
	if res.IsOk() {
		return Indicator{Fill: FillGreen, Shape: ShapeDot, Text: labels.Success}
	}

	text := res.Failure().Message
	if labels.Failure != "" {
		text = labels.Failure + ": " + text
	}
	return Indicator{Fill: FillRed, Shape: ShapeRing, Text: text}
}

// Pending is the indicator shown while a call is in flight
func Pending(text string) Indicator {
	return Indicator{Fill: FillYellow, Shape: ShapeRing, Text: text}
}
