package notes

import "time"

type ListQuery struct {
	Order string `query:"order" validate:"required,oneof=ASC DESC"`
	Page  int    `query:"page" validate:"min=0"`
	Limit int    `query:"limit" validate:"required,min=1,max=100"`
	Sort  string `query:"sort"`
}

type CreateNoteInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateNoteInput is a partial update: at least one field must be present.
type UpdateNoteInput struct {
	Title   string `json:"title" validate:"required_without=Content"`
	Content string `json:"content" validate:"required_without=Title"`
}

type NoteOutput struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toOutput(note *Note) NoteOutput {
	return NoteOutput{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
