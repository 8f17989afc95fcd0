package models

import "time"

// Post — пост пользователя. Author заполняется данными автора при чтении
// и равен nil, если автор не назначен или удален.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"-"`
	Author    *User     `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostPatch — частичное обновление поста. nil означает "не менять".
type PostPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Empty сообщает, что обновлять нечего.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
