package tasks

// Task is a single tracked item. The JSON field names are part of the wire
// contract shared by the v1 and v2 endpoint families and must not change.
type Task struct {
	ID          int    `json:"Id"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Done        bool   `json:"done"`
}

// TaskPatch carries a partial update. Pointer fields distinguish a field
// that was omitted (nil, leave unchanged) from one explicitly set to its
// zero value (apply it), so done=false is a real update.
type TaskPatch struct {
	Title       *string `json:"Title"`
	Description *string `json:"Description"`
	Done        *bool   `json:"done"`
}

// IsEmpty reports whether the patch carries no fields at all.
// Applying an empty patch is a valid no-op.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Done == nil
}

// Apply copies the supplied fields onto the task, leaving omitted ones alone.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}
