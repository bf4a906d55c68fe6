package models

// TextItemRequest archives a text note.
type TextItemRequest struct {
	Field    string    `json:"field" validate:"required,category"`
	Title    string    `json:"title" validate:"required,max=200"`
	Content  string    `json:"content" validate:"required"`
	Tags     []string  `json:"tags,omitempty" validate:"dive,required"`
	Location *Location `json:"location,omitempty" validate:"omitempty"`
}

// LinkItemRequest archives an Instagram post or similar link.
type LinkItemRequest struct {
	Field    string    `json:"field" validate:"required,category"`
	Title    string    `json:"title" validate:"required,max=200"`
	URL      string    `json:"instagram_url" validate:"required,url"`
	Tags     []string  `json:"tags,omitempty" validate:"dive,required"`
	Location *Location `json:"location,omitempty" validate:"omitempty"`
}

// FileItemRequest uploads a local file. It is sent as multipart form data.
type FileItemRequest struct {
	Field    string    `validate:"required,category"`
	Title    string    `validate:"required,max=200"`
	Path     string    `validate:"required,file"`
	Tags     []string  `validate:"dive,required"`
	Location *Location `validate:"omitempty"`
}

// UpdateItemRequest edits an item. Empty fields are left unchanged.
type UpdateItemRequest struct {
	Field   string   `json:"field,omitempty" validate:"omitempty,category"`
	Title   string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty" validate:"dive,required"`
}

// IsEmpty reports whether the update would change nothing.
func (r UpdateItemRequest) IsEmpty() bool {
	return r.Field == "" && r.Title == "" && r.Content == "" && len(r.Tags) == 0
}
