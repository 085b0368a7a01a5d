package posts

// CreatePostRequest represents the create post request body. Owner is never
// taken from the body; it is stamped from the authenticated identity.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// UpdatePostRequest carries the mutable post fields. Nil means "leave
// unchanged".
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}
