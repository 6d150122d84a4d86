package dto

import (
	"time"

	"ridersclub/backend/internal/model"
)

type Post struct {
	ID         uint      `json:"id"`
	Author     Rider     `json:"author"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	LikesCount int       `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewPost(p *model.Post, viewerRiderID uint, m Media) Post {
	return Post{
		ID:         p.ID,
		Author:     NewRider(&p.Author, m),
		Title:      p.Title,
		Content:    p.Content,
		Image:      m.URL(p.Image),
		LikesCount: len(p.Likes),
		IsLiked:    viewerRiderID != 0 && p.LikedBy(viewerRiderID),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewPosts(list []model.Post, viewerRiderID uint, m Media) []Post {
	out := make([]Post, 0, len(list))
	for i := range list {
		out = append(out, NewPost(&list[i], viewerRiderID, m))
	}
	return out
}
