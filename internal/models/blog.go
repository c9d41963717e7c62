package models

import "time"

// Blog пост блога.
type Blog struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Excerpt   string         `json:"excerpt"`
	Content   string         `json:"content"`
	ImageURL  string         `json:"imageUrl"`
	Category  string         `json:"category"`
	Tags      []string       `json:"tags"`
	AuthorID  string         `json:"-"`
	Author    *AuthorSummary `json:"author"`
	ViewCount int64          `json:"viewCount"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// BlogInput тело запроса на создание поста.
type BlogInput struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Excerpt  string   `json:"excerpt" validate:"required,max=500"`
	Content  string   `json:"content" validate:"required"`
	ImageURL string   `json:"imageUrl" validate:"required"`
	Category string   `json:"category" validate:"required,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
}

// BlogPatch тело запроса на изменение поста. Пустые поля не меняются.
type BlogPatch struct {
	Title    string   `json:"title" validate:"omitempty,max=200"`
	Excerpt  string   `json:"excerpt" validate:"omitempty,max=500"`
	Content  string   `json:"content"`
	ImageURL string   `json:"imageUrl"`
	Category string   `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
}

// ViewEvent событие просмотра поста, публикуемое в очередь.
type ViewEvent struct {
	BlogID     string    `json:"blog_id"`
	Slug       string    `json:"slug,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
