package postboard

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the posts repository. Unlike Users it does not re-export the
// generic repository surface; the generic ids there are strings while
// post handlers work with parsed uuids.
type Posts interface {
	List(ctx context.Context) ([]*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	UpdateByID(ctx context.Context, id uuid.UUID, record *Post) (*Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var (
	_ Posts     = (*posts)(nil)
	_ PostStore = (*posts)(nil)
)

// NewPostsRepository builds the posts repository.
func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return ""
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

// List returns every post, newest first.
func (a *posts) List(ctx context.Context) ([]*Post, error) {
	var records []*Post
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *posts) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record, criteria...)
}

func (a *posts) UpdateByID(ctx context.Context, id uuid.UUID, record *Post) (*Post, error) {
	var updated *Post
	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record.ID = id
		now := time.Now()
		record.UpdatedAt = &now
		out, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
		if err != nil {
			return err
		}
		updated = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (a *posts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete post").
			WithCode(errors.CodeInternal)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete post").
			WithCode(errors.CodeInternal)
	}

	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
