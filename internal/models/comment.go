package models

import "time"

// Comment комментарий к посту. ParentID ссылается на комментарий того же поста.
type Comment struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	AuthorID  string         `json:"-"`
	Author    *AuthorSummary `json:"author"`
	BlogID    string         `json:"blog"`
	ParentID  *string        `json:"parentComment,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// CommentNode узел дерева комментариев.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// CommentInput тело запроса на создание комментария или ответа.
type CommentInput struct {
	Content         string `json:"content" validate:"required,max=5000"`
	BlogID          string `json:"blogId" validate:"required,uuid"`
	ParentCommentID string `json:"parentCommentId" validate:"omitempty,uuid"`
}
