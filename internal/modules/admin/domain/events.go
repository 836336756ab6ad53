package domain

// ChangeEvent reports that a booking or payment changed upstream.
type ChangeEvent struct {
	Topic      string
	Collection Collection
	Action     string
	ResourceID int64
}

// Affects reports whether the event concerns the given detail selection.
func (e ChangeEvent) Affects(selection Selection) bool {
	if e.ResourceID <= 0 || selection.ID != e.ResourceID {
		return false
	}
	return selection.Kind.Collection() == e.Collection
}
