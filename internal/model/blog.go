package model

import "time"

// Blog represents a row in the `blogs` table.  UserID is the immutable owner
// reference; update and delete require the acting subject to match it.
type Blog struct {
    ID          string    `json:"id"`          // blogs.id
    Title       string    `json:"title"`       // blogs.title
    Description string    `json:"description"` // blogs.description (optional)
    ImgSrc      string    `json:"imgSrc"`      // blogs.img_src (optional)
    UserID      string    `json:"userId"`      // blogs.user_id (owner, immutable)
    CreatedAt   time.Time `json:"createdAt"`   // blogs.created_at
    UpdatedAt   time.Time `json:"updatedAt"`   // blogs.updated_at
}

// BlogAuthor carries the safe subset of user fields embedded in blog
// listings so clients can render an author line without a second request.
type BlogAuthor struct {
    ID        string `json:"id"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
}

// BlogWithAuthor is the listing shape returned by the getAll endpoint.
type BlogWithAuthor struct {
    Blog
    User BlogAuthor `json:"user"`
}
