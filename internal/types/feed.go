package types

import "time"

// Post is a workout/fitness post. Owner is stamped from the authenticated
// identity at creation and is immutable afterwards.
type Post struct {
	ID        string    `json:"id" example:"3f1c8e52-7b7a-4f7e-9f23-1c2d3e4f5a6b"`
	Title     string    `json:"title" example:"Leg day"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"` // User ID of the author.
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment belongs to a post. Username is denormalized for display.
type Comment struct {
	ID        string    `json:"id"`
	Comment   string    `json:"comment"`
	PostID    string    `json:"post_id"`
	Owner     string    `json:"owner"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like records that a user liked a post. At most one per (post, owner).
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one turn in a user's conversation with the assistant.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"` // "user" or "assistant"
	CreatedAt time.Time `json:"created_at"`
}
