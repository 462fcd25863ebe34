package terrain

// Lane is the side of the road an obstacle stands on.
type Lane int

const (
	LaneNone Lane = iota
	LaneLeft
	LaneRight
)

// ParseLane maps a level file token to a lane. Anything but LEFT or RIGHT
// is LaneNone.
func ParseLane(token string) Lane {
	switch token {
	case "LEFT":
		return LaneLeft
	case "RIGHT":
		return LaneRight
	default:
		return LaneNone
	}
}

func (l Lane) String() string {
	switch l {
	case LaneLeft:
		return "LEFT"
	case LaneRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}
