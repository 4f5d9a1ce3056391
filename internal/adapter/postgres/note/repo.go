// Package note implements the Note repository using PostgreSQL.
package note

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

var noteColumns = []string{
	"id", "user_id", "title", "content", "tags", "created_at", "updated_at",
}

// noteRow mirrors the notes table for scany. Tags is a text[] column.
type noteRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Tags      []string  `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r noteRow) toDomain() domain.Note {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Note{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      tags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides note persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new note repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new note for the given user and returns the persisted row.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, n *domain.Note) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	sql, args, err := postgres.Builder().
		Insert("notes").
		Columns("user_id", "title", "content", "tags").
		Values(userID, n.Title, n.Content, tags).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert note: %w", err)
	}

	var row noteRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note", uuid.Nil)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByID returns a note by primary key with user_id filter.
func (r *Repo) GetByID(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": noteID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select note: %w", err)
	}

	var row noteRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note", noteID)
	}

	n := row.toDomain()
	return &n, nil
}

// ListByUser returns all notes for a user, newest first.
// Returns an empty slice (not nil) when the user has no notes.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes: %w", err)
	}

	var rows []noteRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]domain.Note, len(rows))
	for i, row := range rows {
		notes[i] = row.toDomain()
	}

	return notes, nil
}

// Update applies a partial update. Nil fields in upd are not touched; the
// updated_at marker always advances, even for an empty update.
func (r *Repo) Update(ctx context.Context, userID, noteID uuid.UUID, upd domain.NoteUpdate) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Update("notes").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": noteID, "user_id": userID}).
		Suffix("RETURNING " + columnList())

	if upd.Title != nil {
		b = b.Set("title", *upd.Title)
	}
	if upd.Content != nil {
		b = b.Set("content", *upd.Content)
	}
	if upd.Tags != nil {
		b = b.Set("tags", *upd.Tags)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update note: %w", err)
	}

	var row noteRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note", noteID)
	}

	n := row.toDomain()
	return &n, nil
}

// Delete removes a note.
func (r *Repo) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("notes").
		Where(squirrel.Eq{"id": noteID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete note: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "note", noteID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", noteID, domain.ErrNotFound)
	}

	return nil
}

func columnList() string {
	list := noteColumns[0]
	for _, c := range noteColumns[1:] {
		list += ", " + c
	}
	return list
}
