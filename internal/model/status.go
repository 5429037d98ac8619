package model

// Status is the tri-state availability code shared by every resource kind.
type Status int

const (
	StatusAvailable   Status = 0
	StatusUnavailable Status = 1
	StatusOccupied    Status = 2
)

// Valid reports whether s is one of the three known codes.
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusUnavailable || s == StatusOccupied
}

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	case StatusOccupied:
		return "occupied"
	}
	return "unknown"
}
