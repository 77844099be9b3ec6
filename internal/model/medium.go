package model

// Medium is the delivery medium of a session.
type Medium string

const (
	MediumVideo    Medium = "video"
	MediumInPerson Medium = "in_person"
	MediumGroup    Medium = "group"
)

// Valid reports whether m is one of the known media.
func (m Medium) Valid() bool {
	switch m {
	case MediumVideo, MediumInPerson, MediumGroup:
		return true
	}
	return false
}
