package domain

type Note struct {
	ID      int    `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,notblank"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"required,notblank"`
	Content string `json:"content"`
}

type NoteResponse struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (n *Note) ToResponse() *NoteResponse {
	return &NoteResponse{
		ID:      n.ID,
		Title:   n.Title,
		Content: n.Content,
	}
}

// Clone returns a copy so callers never alias repository state.
func (n *Note) Clone() *Note {
	c := *n
	return &c
}
