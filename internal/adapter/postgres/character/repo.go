// Package character implements the Character repository using PostgreSQL,
// including the story_characters M2M join between stories and characters.
package character

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

var characterColumns = []string{
	"id", "user_id", "name", "avatar", "age", "physical_description",
	"personality", "backstory", "role", "relationships", "created_at",
}

// characterRow mirrors the characters table for scany.
type characterRow struct {
	ID                  uuid.UUID `db:"id"`
	UserID              uuid.UUID `db:"user_id"`
	Name                string    `db:"name"`
	Avatar              *string   `db:"avatar"`
	Age                 string    `db:"age"`
	PhysicalDescription string    `db:"physical_description"`
	Personality         string    `db:"personality"`
	Backstory           string    `db:"backstory"`
	Role                string    `db:"role"`
	Relationships       string    `db:"relationships"`
	CreatedAt           time.Time `db:"created_at"`
}

func (r characterRow) toDomain() domain.Character {
	return domain.Character{
		ID:                  r.ID,
		UserID:              r.UserID,
		Name:                r.Name,
		Avatar:              r.Avatar,
		Age:                 r.Age,
		PhysicalDescription: r.PhysicalDescription,
		Personality:         r.Personality,
		Backstory:           r.Backstory,
		Role:                domain.CharacterRole(r.Role),
		Relationships:       r.Relationships,
		CreatedAt:           r.CreatedAt,
	}
}

// linkRow mirrors the story_characters join for scany.
type linkRow struct {
	StoryID     uuid.UUID `db:"story_id"`
	CharacterID uuid.UUID `db:"character_id"`
}

// Repo provides character persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new character repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new character for the given user and returns the persisted row.
// Story links are written separately via ReplaceStoriesForCharacter.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, c *domain.Character) (*domain.Character, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("characters").
		Columns("user_id", "name", "avatar", "age", "physical_description",
			"personality", "backstory", "role", "relationships").
		Values(userID, c.Name, c.Avatar, c.Age, c.PhysicalDescription,
			c.Personality, c.Backstory, c.Role.String(), c.Relationships).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert character: %w", err)
	}

	var row characterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "character", uuid.Nil)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByID returns a character by primary key with user_id filter.
func (r *Repo) GetByID(ctx context.Context, userID, characterID uuid.UUID) (*domain.Character, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(characterColumns...).
		From("characters").
		Where(squirrel.Eq{"id": characterID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select character: %w", err)
	}

	var row characterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "character", characterID)
	}

	c := row.toDomain()
	return &c, nil
}

// ListByUser returns all characters for a user ordered by creation time.
// StoryIDs are not populated here; compose with Links.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Character, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(characterColumns...).
		From("characters").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list characters: %w", err)
	}

	var rows []characterRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	characters := make([]domain.Character, len(rows))
	for i, row := range rows {
		characters[i] = row.toDomain()
	}

	return characters, nil
}

// Update applies a partial update. Nil fields in upd are not touched.
// Story link replacement is handled by ReplaceStoriesForCharacter.
func (r *Repo) Update(ctx context.Context, userID, characterID uuid.UUID, upd domain.CharacterUpdate) (*domain.Character, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Update("characters").
		Where(squirrel.Eq{"id": characterID, "user_id": userID}).
		Suffix("RETURNING " + columnList())

	set := false
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
		set = true
	}
	if upd.Avatar != nil {
		b = b.Set("avatar", *upd.Avatar)
		set = true
	}
	if upd.Age != nil {
		b = b.Set("age", *upd.Age)
		set = true
	}
	if upd.PhysicalDescription != nil {
		b = b.Set("physical_description", *upd.PhysicalDescription)
		set = true
	}
	if upd.Personality != nil {
		b = b.Set("personality", *upd.Personality)
		set = true
	}
	if upd.Backstory != nil {
		b = b.Set("backstory", *upd.Backstory)
		set = true
	}
	if upd.Role != nil {
		b = b.Set("role", upd.Role.String())
		set = true
	}
	if upd.Relationships != nil {
		b = b.Set("relationships", *upd.Relationships)
		set = true
	}

	// Characters carry no updated_at column; an update that touches nothing
	// degenerates to a fetch.
	if !set {
		return r.GetByID(ctx, userID, characterID)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update character: %w", err)
	}

	var row characterRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "character", characterID)
	}

	c := row.toDomain()
	return &c, nil
}

// Delete removes a character. CASCADE deletes its story links; stories are
// NOT affected.
func (r *Repo) Delete(ctx context.Context, userID, characterID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("characters").
		Where(squirrel.Eq{"id": characterID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete character: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "character", characterID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %s: %w", characterID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// story_characters join operations
// ---------------------------------------------------------------------------

const linksByUserSQL = `
SELECT sc.story_id, sc.character_id
FROM story_characters sc
JOIN stories s ON s.id = sc.story_id
WHERE s.user_id = $1
ORDER BY sc.story_id, sc.character_id`

// Links returns every (story, character) join row belonging to the user.
// Used by the full-collection fetch to populate both directions of the M2M.
func (r *Repo) Links(ctx context.Context, userID uuid.UUID) ([]domain.CharacterLink, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []linkRow
	if err := pgxscan.Select(ctx, q, &rows, linksByUserSQL, userID); err != nil {
		return nil, fmt.Errorf("list story_characters: %w", err)
	}

	links := make([]domain.CharacterLink, len(rows))
	for i, row := range rows {
		links[i] = domain.CharacterLink{StoryID: row.StoryID, CharacterID: row.CharacterID}
	}

	return links, nil
}

const insertLinksSQL = `
INSERT INTO story_characters (story_id, character_id)
SELECT $1, unnest($2::uuid[])
ON CONFLICT DO NOTHING`

// ReplaceStoriesForCharacter replaces a character's story links wholesale:
// delete-all-then-reinsert, not a diff.
func (r *Repo) ReplaceStoriesForCharacter(ctx context.Context, characterID uuid.UUID, storyIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM story_characters WHERE character_id = $1`, characterID); err != nil {
		return postgres.MapError(err, "story_character", characterID)
	}

	if len(storyIDs) == 0 {
		return nil
	}

	sql := `INSERT INTO story_characters (story_id, character_id) SELECT unnest($1::uuid[]), $2 ON CONFLICT DO NOTHING`
	if _, err := q.Exec(ctx, sql, storyIDs, characterID); err != nil {
		return postgres.MapError(err, "story_character", characterID)
	}

	return nil
}

// ReplaceCharactersForStory replaces a story's character links wholesale:
// delete-all-then-reinsert, not a diff.
func (r *Repo) ReplaceCharactersForStory(ctx context.Context, storyID uuid.UUID, characterIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM story_characters WHERE story_id = $1`, storyID); err != nil {
		return postgres.MapError(err, "story_character", storyID)
	}

	if len(characterIDs) == 0 {
		return nil
	}

	if _, err := q.Exec(ctx, insertLinksSQL, storyID, characterIDs); err != nil {
		return postgres.MapError(err, "story_character", storyID)
	}

	return nil
}

// Unlink removes a single (story, character) join row. Idempotent: a missing
// link is not an error; the character entity itself is untouched.
func (r *Repo) Unlink(ctx context.Context, storyID, characterID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("story_characters").
		Where(squirrel.Eq{"story_id": storyID, "character_id": characterID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build unlink character: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "story_character", characterID)
	}

	return nil
}

func columnList() string {
	list := characterColumns[0]
	for _, c := range characterColumns[1:] {
		list += ", " + c
	}
	return list
}
