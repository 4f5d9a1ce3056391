// Package story implements the Story repository using PostgreSQL.
// Stories are scoped to their owning user; chapters and character links
// live in their own repositories and are composed by the caller.
package story

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/storylabhq/storylab-backend/internal/adapter/postgres"
	"github.com/storylabhq/storylab-backend/internal/domain"
)

var storyColumns = []string{
	"id", "user_id", "title", "genre", "synopsis", "cover_image",
	"status", "start_date", "notes", "word_count", "created_at", "updated_at",
}

// storyRow mirrors the stories table for scany.
type storyRow struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Title      string    `db:"title"`
	Genre      string    `db:"genre"`
	Synopsis   string    `db:"synopsis"`
	CoverImage *string   `db:"cover_image"`
	Status     string    `db:"status"`
	StartDate  time.Time `db:"start_date"`
	Notes      string    `db:"notes"`
	WordCount  int       `db:"word_count"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r storyRow) toDomain() domain.Story {
	return domain.Story{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Genre:      r.Genre,
		Synopsis:   r.Synopsis,
		CoverImage: r.CoverImage,
		Status:     domain.StoryStatus(r.Status),
		StartDate:  r.StartDate,
		Notes:      r.Notes,
		WordCount:  r.WordCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Repo provides story persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new story repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new story for the given user and returns the persisted row.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, s *domain.Story) (*domain.Story, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("stories").
		Columns("user_id", "title", "genre", "synopsis", "cover_image", "status", "start_date", "notes").
		Values(userID, s.Title, s.Genre, s.Synopsis, s.CoverImage, s.Status.String(), s.StartDate, s.Notes).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert story: %w", err)
	}

	var row storyRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "story", uuid.Nil)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByID returns a story by primary key with user_id filter.
// Returns domain.ErrNotFound if the story does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, storyID uuid.UUID) (*domain.Story, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(storyColumns...).
		From("stories").
		Where(squirrel.Eq{"id": storyID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select story: %w", err)
	}

	var row storyRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "story", storyID)
	}

	s := row.toDomain()
	return &s, nil
}

// ListByUser returns all stories for a user, newest first.
// Returns an empty slice (not nil) when the user has no stories.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Story, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(storyColumns...).
		From("stories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stories: %w", err)
	}

	var rows []storyRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	stories := make([]domain.Story, len(rows))
	for i, row := range rows {
		stories[i] = row.toDomain()
	}

	return stories, nil
}

// Update applies a partial update. Nil fields in upd are not touched; the
// updated_at marker always advances, even for an empty update. Character link
// replacement is the character repository's concern and is not handled here.
func (r *Repo) Update(ctx context.Context, userID, storyID uuid.UUID, upd domain.StoryUpdate) (*domain.Story, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Update("stories").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": storyID, "user_id": userID}).
		Suffix("RETURNING " + columnList())

	if upd.Title != nil {
		b = b.Set("title", *upd.Title)
	}
	if upd.Genre != nil {
		b = b.Set("genre", *upd.Genre)
	}
	if upd.Synopsis != nil {
		b = b.Set("synopsis", *upd.Synopsis)
	}
	if upd.CoverImage != nil {
		b = b.Set("cover_image", *upd.CoverImage)
	}
	if upd.Status != nil {
		b = b.Set("status", upd.Status.String())
	}
	if upd.StartDate != nil {
		b = b.Set("start_date", *upd.StartDate)
	}
	if upd.Notes != nil {
		b = b.Set("notes", *upd.Notes)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update story: %w", err)
	}

	var row storyRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "story", storyID)
	}

	s := row.toDomain()
	return &s, nil
}

// Delete removes a story. CASCADE deletes its chapters and character links.
// Returns domain.ErrNotFound if the story does not exist or belongs to another user.
func (r *Repo) Delete(ctx context.Context, userID, storyID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("stories").
		Where(squirrel.Eq{"id": storyID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete story: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "story", storyID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", storyID, domain.ErrNotFound)
	}

	return nil
}

const refreshWordCountSQL = `
UPDATE stories
SET word_count = (SELECT COALESCE(SUM(word_count), 0) FROM chapters WHERE story_id = $1),
    updated_at = now()
WHERE id = $1`

// RefreshWordCount recomputes the story's stored word count from its chapters
// and advances updated_at. Called after every chapter write.
func (r *Repo) RefreshWordCount(ctx context.Context, storyID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, refreshWordCountSQL, storyID); err != nil {
		return postgres.MapError(err, "story", storyID)
	}

	return nil
}

func columnList() string {
	list := storyColumns[0]
	for _, c := range storyColumns[1:] {
		list += ", " + c
	}
	return list
}
