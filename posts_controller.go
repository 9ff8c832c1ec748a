package postboard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// PostStore is the slice of the posts repository the controller needs.
type PostStore interface {
	List(ctx context.Context) ([]*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	UpdateByID(ctx context.Context, id uuid.UUID, record *Post) (*Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// PostRequest is the payload for creating or updating a post.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 100)),
	)
}

// PostResponse is the wire representation of a post.
type PostResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
	ViewCount   int64     `json:"viewCount"`
}

func newPostResponse(p *Post) PostResponse {
	out := PostResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		ViewCount: p.ViewCount,
	}
	if p.CreatedAt != nil {
		out.CreatedDate = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		out.UpdatedDate = *p.UpdatedAt
	}
	return out
}

// PostsController exposes CRUD over posts.
type PostsController struct {
	store  PostStore
	logger Logger
}

// NewPostsController builds the controller around a PostStore.
func NewPostsController(store PostStore) *PostsController {
	return &PostsController{
		store:  store,
		logger: defLogger{},
	}
}

func (p *PostsController) WithLogger(logger Logger) *PostsController {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// RegisterRoutes mounts the posts endpoints under the given router.
func (p *PostsController) RegisterRoutes(router fiber.Router) {
	grp := router.Group("/api/posts")
	grp.Post("/", p.Create)
	grp.Get("/", p.List)
	grp.Get("/:id", p.Get)
	grp.Put("/:id", p.Update)
	grp.Delete("/:id", p.Delete)
}

func (p *PostsController) Create(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid post payload").
			WithCode(errors.CodeBadRequest)
	}

	if err := req.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest)
	}

	post, err := p.store.Create(c.UserContext(), &Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		p.logger.Error("Create post failed: %v", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newPostResponse(post))
}

func (p *PostsController) List(c *fiber.Ctx) error {
	posts, err := p.store.List(c.UserContext())
	if err != nil {
		p.logger.Error("List posts failed: %v", err)
		return err
	}

	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, newPostResponse(post))
	}
	return c.JSON(out)
}

func (p *PostsController) Get(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := p.store.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(newPostResponse(post))
}

// Update replaces the mutable fields of an existing post. We fetch first
// so a missing record surfaces as a 404 rather than a silent upsert.
func (p *PostsController) Update(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid post payload").
			WithCode(errors.CodeBadRequest)
	}

	if err := req.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest)
	}

	post, err := p.store.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Author = req.Author

	updated, err := p.store.UpdateByID(c.UserContext(), id, post)
	if err != nil {
		p.logger.Error("Update post %s failed: %v", id, err)
		return err
	}

	return c.JSON(newPostResponse(updated))
}

func (p *PostsController) Delete(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := p.store.DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parsePostID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "invalid post id").
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
