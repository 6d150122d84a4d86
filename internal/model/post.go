package model

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Image     string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author Rider   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Likes  []Rider `gorm:"many2many:post_likes;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) LikedBy(riderID uint) bool {
	for _, r := range p.Likes {
		if r.ID == riderID {
			return true
		}
	}
	return false
}

// PostLike is the join row behind Post.Likes.
type PostLike struct {
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	RiderID   uint      `gorm:"primaryKey;index" json:"rider_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }
