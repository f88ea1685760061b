package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/avrorin/blog-platform/internal/model"
)

// PageSize is the fixed number of blogs returned per listing page.
const PageSize = 10

type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// Create inserts a blog row with a fresh id and returns the stored record.
func (r *BlogRepo) Create(ctx context.Context, title, description, imgSrc, userID string) (model.Blog, error) {
	b := model.Blog{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		ImgSrc:      imgSrc,
		UserID:      userID,
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO blogs (id, title, description, img_src, user_id) VALUES (?,?,?,?,?)",
		b.ID, b.Title, b.Description, b.ImgSrc, b.UserID)
	if err != nil {
		return model.Blog{}, err
	}
	return b, nil
}

// GetByID fetches a single blog. ErrBlogNotFound is returned when no row
// matches so handlers can map it to 404 without importing database/sql.
func (r *BlogRepo) GetByID(ctx context.Context, id string) (model.Blog, error) {
	var b model.Blog
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,description,img_src,user_id,created_at,updated_at FROM blogs WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.Title, &b.Description, &b.ImgSrc, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Blog{}, ErrBlogNotFound
	}
	return b, err
}

// List returns one page of blogs ordered by most recently updated first,
// with the author's safe fields joined in.
func (r *BlogRepo) List(ctx context.Context, offset int) ([]model.BlogWithAuthor, error) {
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id,b.title,b.description,b.img_src,b.user_id,b.created_at,b.updated_at,
		        u.id,u.first_name,u.last_name
		 FROM blogs b JOIN users u ON u.id = b.user_id
		 ORDER BY b.updated_at DESC LIMIT ? OFFSET ?`,
		PageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BlogWithAuthor, 0, PageSize)
	for rows.Next() {
		var it model.BlogWithAuthor
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Description, &it.ImgSrc, &it.UserID, &it.CreatedAt, &it.UpdatedAt,
			&it.User.ID, &it.User.FirstName, &it.User.LastName,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update rewrites the mutable fields of a blog. The owner reference is
// never touched. Zero affected rows is not an error here: MySQL reports 0
// for value-identical updates, and callers have already loaded the row for
// the ownership check.
func (r *BlogRepo) Update(ctx context.Context, id, title, description, imgSrc string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE blogs SET title=?, description=?, img_src=?, updated_at=NOW() WHERE id=?",
		title, description, imgSrc, id)
	return err
}

// Delete removes a blog row. Deleting an id that no longer exists yields
// ErrBlogNotFound, keeping repeated deletes harmless.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM blogs WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlogNotFound
	}
	return nil
}
