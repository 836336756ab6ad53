package domain

// ListCommand asks the view to show a page of a collection.
type ListCommand struct {
	Collection string `json:"collection"`
	Page       int    `json:"page"`
}

// PageStepCommand moves a collection one page forward or back.
type PageStepCommand struct {
	Collection string `json:"collection"`
}

// OpenDetailCommand selects a record for the detail modal.
type OpenDetailCommand struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}
