// Package chapter implements the Chapter repository using PostgreSQL.
// Chapters belong to a story; callers refresh the owning story's stored
// word count through the story repository after every chapter write.
package chapter

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

var chapterColumns = []string{
	"id", "story_id", "number", "title", "content", "word_count",
	"status", "created_at", "updated_at",
}

// chapterRow mirrors the chapters table for scany.
type chapterRow struct {
	ID        uuid.UUID `db:"id"`
	StoryID   uuid.UUID `db:"story_id"`
	Number    int       `db:"number"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	WordCount int       `db:"word_count"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r chapterRow) toDomain() domain.Chapter {
	return domain.Chapter{
		ID:        r.ID,
		StoryID:   r.StoryID,
		Number:    r.Number,
		Title:     r.Title,
		Content:   r.Content,
		WordCount: r.WordCount,
		Status:    domain.ChapterStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides chapter persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new chapter repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new chapter. The caller assigns Number (chapter count at
// creation time + 1); the unique (story_id, number) constraint surfaces races
// as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c *domain.Chapter) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("chapters").
		Columns("story_id", "number", "title", "content", "word_count", "status").
		Values(c.StoryID, c.Number, c.Title, c.Content, c.WordCount, c.Status.String()).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert chapter: %w", err)
	}

	var row chapterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "chapter", uuid.Nil)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByID returns a chapter by primary key, scoped to its story.
func (r *Repo) GetByID(ctx context.Context, storyID, chapterID uuid.UUID) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(chapterColumns...).
		From("chapters").
		Where(squirrel.Eq{"id": chapterID, "story_id": storyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select chapter: %w", err)
	}

	var row chapterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "chapter", chapterID)
	}

	c := row.toDomain()
	return &c, nil
}

// ListByStory returns a story's chapters ordered by chapter number.
// Returns an empty slice (not nil) when the story has no chapters.
func (r *Repo) ListByStory(ctx context.Context, storyID uuid.UUID) ([]domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(chapterColumns...).
		From("chapters").
		Where(squirrel.Eq{"story_id": storyID}).
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list chapters: %w", err)
	}

	var rows []chapterRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	chapters := make([]domain.Chapter, len(rows))
	for i, row := range rows {
		chapters[i] = row.toDomain()
	}

	return chapters, nil
}

const listByStoriesSQL = `
SELECT id, story_id, number, title, content, word_count, status, created_at, updated_at
FROM chapters
WHERE story_id = ANY($1::uuid[])
ORDER BY story_id, number`

// ListByStories returns the chapters of multiple stories in one round trip,
// ordered by story and chapter number. Used by the full-collection fetch.
func (r *Repo) ListByStories(ctx context.Context, storyIDs []uuid.UUID) ([]domain.Chapter, error) {
	if len(storyIDs) == 0 {
		return []domain.Chapter{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []chapterRow
	if err := pgxscan.Select(ctx, q, &rows, listByStoriesSQL, storyIDs); err != nil {
		return nil, fmt.Errorf("list chapters by stories: %w", err)
	}

	chapters := make([]domain.Chapter, len(rows))
	for i, row := range rows {
		chapters[i] = row.toDomain()
	}

	return chapters, nil
}

// CountByStory returns the number of chapters a story currently has.
func (r *Repo) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM chapters WHERE story_id = $1`, storyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chapters: %w", err)
	}

	return count, nil
}

// Update applies a partial update. Nil fields in upd are not touched; the
// updated_at marker always advances, even for an empty update.
func (r *Repo) Update(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Update("chapters").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": chapterID, "story_id": storyID}).
		Suffix("RETURNING " + columnList())

	if upd.Title != nil {
		b = b.Set("title", *upd.Title)
	}
	if upd.Content != nil {
		b = b.Set("content", *upd.Content)
	}
	if upd.WordCount != nil {
		b = b.Set("word_count", *upd.WordCount)
	}
	if upd.Status != nil {
		b = b.Set("status", upd.Status.String())
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update chapter: %w", err)
	}

	var row chapterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "chapter", chapterID)
	}

	c := row.toDomain()
	return &c, nil
}

// Delete removes a chapter. Remaining chapters keep their numbers.
func (r *Repo) Delete(ctx context.Context, storyID, chapterID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("chapters").
		Where(squirrel.Eq{"id": chapterID, "story_id": storyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete chapter: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "chapter", chapterID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", chapterID, domain.ErrNotFound)
	}

	return nil
}

func columnList() string {
	list := chapterColumns[0]
	for _, c := range chapterColumns[1:] {
		list += ", " + c
	}
	return list
}
