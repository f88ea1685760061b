package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avrorin/blog-platform/internal/middleware"
	"github.com/avrorin/blog-platform/internal/model"
	"github.com/avrorin/blog-platform/internal/queue"
	"github.com/avrorin/blog-platform/internal/repository"
)

// newBlogHandlerWithMock builds a handler over sqlmock with the RabbitMQ
// publisher replaced by an in-memory recorder.
func newBlogHandlerWithMock(t *testing.T) (*BlogHandler, sqlmock.Sqlmock, *sql.DB, *[]queue.BlogActivityEvent) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	h := NewBlogHandler(repository.NewBlogRepo(db))
	var events []queue.BlogActivityEvent
	h.Publish = func(ctx context.Context, ev queue.BlogActivityEvent) error {
		events = append(events, ev)
		return nil
	}
	return h, mock, db, &events
}

func blogRows(b model.Blog) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "img_src", "user_id", "created_at", "updated_at"}).
		AddRow(b.ID, b.Title, b.Description, b.ImgSrc, b.UserID, b.CreatedAt, b.UpdatedAt)
}

func blogContext(e *echo.Echo, req *http.Request, subjectID string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subjectID != "" {
		c.Set(middleware.UserIDKey, subjectID)
	}
	return c, rec
}

const selectBlogQ = `SELECT\s+.*\s+FROM\s+blogs\s+WHERE\s+id=\?`

func TestGetAll_ReturnsPage(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "img_src", "user_id", "created_at", "updated_at",
		"id", "first_name", "last_name",
	}).AddRow("b-1", "Hello", "World", "img.jpg", "u-1", now, now, "u-1", "A", "B")

	mock.ExpectQuery(`ORDER\s+BY\s+b\.updated_at\s+DESC`).
		WithArgs(repository.PageSize, 10).
		WillReturnRows(rows)

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodGet, "/blog/getAll?offset=10", nil), "")

	require.NoError(t, h.GetAll(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.BlogWithAuthor
	require.NoError(t, decodeBody(rec, &items))
	require.Len(t, items, 1)
	require.Equal(t, "Hello", items[0].Title)
	require.Equal(t, "A", items[0].User.FirstName)
}

func TestGetAll_DefaultOffset(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`ORDER\s+BY\s+b\.updated_at\s+DESC`).
		WithArgs(repository.PageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "img_src", "user_id", "created_at", "updated_at",
			"id", "first_name", "last_name",
		}))

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodGet, "/blog/getAll", nil), "")

	require.NoError(t, h.GetAll(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetArticle_MissingID(t *testing.T) {
	h, _, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodGet, "/blog/getArticle", nil), "")

	require.NoError(t, h.GetArticle(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Blog ID is required")
}

func TestGetArticle_NotFound(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodGet, "/blog/getArticle?id=missing", nil), "")

	require.NoError(t, h.GetArticle(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetArticle_Found(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Hello", UserID: "u-1"}))

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodGet, "/blog/getArticle?id=b-1", nil), "")

	require.NoError(t, h.GetArticle(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hello")
}

func TestCreate_Success(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+blogs`).
		WithArgs(sqlmock.AnyArg(), "New post", "Body", "img.jpg", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPost, "/blog/createBlog",
		`{"title":"New post","description":"Body","imgSrc":"img.jpg","userId":"u-1"}`), "")

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var b model.Blog
	require.NoError(t, decodeBody(rec, &b))
	require.NotEmpty(t, b.ID)
	require.Equal(t, "u-1", b.UserID)

	require.Len(t, *events, 1)
	require.Equal(t, "created", (*events)[0].Action)
	require.Equal(t, b.ID, (*events)[0].BlogID)
}

func TestCreate_MissingFields(t *testing.T) {
	h, _, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	e := echo.New()

	c, rec := blogContext(e, jsonRequest(http.MethodPost, "/blog/createBlog",
		`{"description":"no title","userId":"u-1"}`), "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = blogContext(e, jsonRequest(http.MethodPost, "/blog/createBlog",
		`{"title":"no owner"}`), "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Empty(t, *events)
}

func TestCreate_DBError(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+blogs`).WillReturnError(errors.New("insert failed"))

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPost, "/blog/createBlog",
		`{"title":"New post","userId":"u-1"}`), "")

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Error creating blog")
	require.Contains(t, rec.Body.String(), "insert failed")
	require.Empty(t, *events)
}

func TestUpdate_NoSubject(t *testing.T) {
	h, _, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPut, "/blog/updateBlog?id=b-1", `{"title":"x"}`), "")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdate_MissingID(t *testing.T) {
	h, _, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPut, "/blog/updateBlog", `{"title":"x"}`), "u-1")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Blog ID is required")
}

func TestUpdate_NotFound(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPut, "/blog/updateBlog?id=missing", `{"title":"x"}`), "u-1")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// Cross-user update: user B holds a valid token but does not own the blog.
// The request must fail with 403 and no UPDATE statement may run.
func TestUpdate_Forbidden(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Original", UserID: "user-a"}))

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPut, "/blog/updateBlog?id=b-1", `{"title":"hijack"}`), "user-b")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "You can only modify your own blog posts")
	require.Empty(t, *events)
	// Only the SELECT was expected; an UPDATE would fail this check.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Success(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Original", UserID: "u-1", CreatedAt: now, UpdatedAt: now}))
	mock.ExpectExec(`UPDATE\s+blogs\s+SET`).
		WithArgs("Renamed", "New body", "new.jpg", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Renamed", Description: "New body", ImgSrc: "new.jpg", UserID: "u-1", CreatedAt: now, UpdatedAt: now}))

	e := echo.New()
	c, rec := blogContext(e, jsonRequest(http.MethodPut, "/blog/updateBlog?id=b-1",
		`{"title":"Renamed","description":"New body","imgSrc":"new.jpg"}`), "u-1")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Renamed")

	require.Len(t, *events, 1)
	require.Equal(t, "updated", (*events)[0].Action)
}

func TestDelete_Forbidden(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Original", UserID: "user-a"}))

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodDelete, "/blog/deleteBlog?id=b-1", nil), "user-b")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, *events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Success(t *testing.T) {
	h, mock, db, events := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("b-1").
		WillReturnRows(blogRows(model.Blog{ID: "b-1", Title: "Bye", UserID: "u-1"}))
	mock.ExpectExec(`DELETE\s+FROM\s+blogs`).
		WithArgs("b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodDelete, "/blog/deleteBlog?id=b-1", nil), "u-1")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, *events, 1)
	require.Equal(t, "deleted", (*events)[0].Action)
}

// Deleting an id that was already removed answers 404 from the load step.
func TestDelete_AlreadyDeleted(t *testing.T) {
	h, mock, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectBlogQ).WithArgs("gone").WillReturnError(sql.ErrNoRows)

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodDelete, "/blog/deleteBlog?id=gone", nil), "u-1")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_MissingID(t *testing.T) {
	h, _, db, _ := newBlogHandlerWithMock(t)
	defer db.Close()

	e := echo.New()
	c, rec := blogContext(e, httptest.NewRequest(http.MethodDelete, "/blog/deleteBlog", nil), "u-1")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Blog ID is required")
}
