package postboard_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/postboard-io/postboard"
)

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) List(ctx context.Context) ([]*postboard.Post, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]*postboard.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostStore) GetByID(ctx context.Context, id uuid.UUID) (*postboard.Post, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*postboard.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostStore) Create(ctx context.Context, record *postboard.Post, criteria ...repository.InsertCriteria) (*postboard.Post, error) {
	args := m.Called(ctx, record)
	if p := args.Get(0); p != nil {
		return p.(*postboard.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostStore) UpdateByID(ctx context.Context, id uuid.UUID, record *postboard.Post) (*postboard.Post, error) {
	args := m.Called(ctx, id, record)
	if p := args.Get(0); p != nil {
		return p.(*postboard.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newPostsApp(store postboard.PostStore) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: postboard.NewErrorHandler(nil),
	})
	postboard.NewPostsController(store).RegisterRoutes(app)
	return app
}

func testPost(id uuid.UUID) *postboard.Post {
	now := time.Now().UTC().Truncate(time.Second)
	return &postboard.Post{
		ID:        id,
		Title:     "Hello",
		Content:   "First post",
		Author:    "alice",
		ViewCount: 3,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

func TestPostsController_Create(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()

	store.On("Create", mock.Anything, mock.MatchedBy(func(p *postboard.Post) bool {
		return p.Title == "Hello" && p.Content == "First post" && p.Author == "alice"
	})).Return(testPost(id), nil)

	app := newPostsApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/posts/",
		strings.NewReader(`{"title":"Hello","content":"First post","author":"alice"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var body map[string]any
	raw, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "Hello", body["title"])
	assert.Equal(t, "alice", body["author"])
	assert.EqualValues(t, 3, body["viewCount"])
	assert.Contains(t, body, "createdDate")
	assert.Contains(t, body, "updatedDate")
}

func TestPostsController_Create_Invalid(t *testing.T) {
	store := &MockPostStore{}
	app := newPostsApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/posts/",
		strings.NewReader(`{"title":"","content":"","author":""}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostsController_List(t *testing.T) {
	store := &MockPostStore{}
	store.On("List", mock.Anything).Return([]*postboard.Post{
		testPost(uuid.New()),
		testPost(uuid.New()),
	}, nil)

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body []map[string]any
	raw, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Len(t, body, 2)
}

func TestPostsController_List_Empty(t *testing.T) {
	store := &MockPostStore{}
	store.On("List", mock.Anything).Return([]*postboard.Post{}, nil)

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestPostsController_Get(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).Return(testPost(id), nil)

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestPostsController_Get_NotFound(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).
		Return(nil, repository.NewRecordNotFound())

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPostsController_Get_BadID(t *testing.T) {
	store := &MockPostStore{}
	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPostsController_Update(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()

	store.On("GetByID", mock.Anything, id).Return(testPost(id), nil)
	store.On("UpdateByID", mock.Anything, id, mock.MatchedBy(func(p *postboard.Post) bool {
		return p.Title == "Updated" && p.Content == "New content"
	})).Return(&postboard.Post{
		ID:      id,
		Title:   "Updated",
		Content: "New content",
		Author:  "alice",
	}, nil)

	app := newPostsApp(store)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+id.String(),
		strings.NewReader(`{"title":"Updated","content":"New content","author":"alice"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	store.AssertExpectations(t)
}

func TestPostsController_Update_NotFound(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).
		Return(nil, repository.NewRecordNotFound())

	app := newPostsApp(store)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+id.String(),
		strings.NewReader(`{"title":"Updated","content":"New content","author":"alice"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostsController_Delete(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()
	store.On("DeleteByID", mock.Anything, id).Return(nil)

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestPostsController_Delete_NotFound(t *testing.T) {
	store := &MockPostStore{}
	id := uuid.New()
	store.On("DeleteByID", mock.Anything, id).
		Return(repository.NewRecordNotFound())

	app := newPostsApp(store)

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
