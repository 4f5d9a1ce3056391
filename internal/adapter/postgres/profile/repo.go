// Package profile implements the Profile repository using PostgreSQL.
package profile

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

var profileColumns = []string{
	"user_id", "name", "avatar_url", "bio", "updated_at",
}

type profileRow struct {
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	AvatarURL *string   `db:"avatar_url"`
	Bio       *string   `db:"bio"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r profileRow) toDomain() domain.Profile {
	return domain.Profile{
		UserID:    r.UserID,
		Name:      r.Name,
		AvatarURL: r.AvatarURL,
		Bio:       r.Bio,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts the profile row for a freshly registered user.
func (r *Repo) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("profiles").
		Columns("user_id", "name", "avatar_url", "bio").
		Values(p.UserID, p.Name, p.AvatarURL, p.Bio).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "profile", p.UserID)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByUserID returns the profile for a user.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "profile", userID)
	}

	p := row.toDomain()
	return &p, nil
}

// Update applies a partial update. Nil fields are left untouched; updated_at
// always advances so an empty update is still observable.
func (r *Repo) Update(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Update("profiles").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING " + columnList())

	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.AvatarURL != nil {
		b = b.Set("avatar_url", *upd.AvatarURL)
	}
	if upd.Bio != nil {
		b = b.Set("bio", *upd.Bio)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "profile", userID)
	}

	p := row.toDomain()
	return &p, nil
}

func columnList() string {
	list := profileColumns[0]
	for _, c := range profileColumns[1:] {
		list += ", " + c
	}
	return list
}
