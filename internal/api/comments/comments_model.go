package comments

// CreateCommentRequest represents the create comment request body. Owner is
// stamped from the authenticated identity.
type CreateCommentRequest struct {
	Comment  string `json:"comment"`
	PostID   string `json:"post_id"`
	Username string `json:"username"`
}

// UpdateCommentRequest changes the comment text only.
type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}
