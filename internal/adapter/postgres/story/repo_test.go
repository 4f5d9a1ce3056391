package story

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/storylabhq/storylab-backend/internal/adapter/postgres/testhelper"
	"github.com/storylabhq/storylab-backend/internal/domain"
)

var storyTestColumns = []string{
	"id", "user_id", "title", "genre", "synopsis", "cover_image",
	"status", "start_date", "notes", "word_count", "created_at", "updated_at",
}

func storyRowValues(id, userID uuid.UUID, title string, now time.Time) []any {
	return []any{id, userID, title, "fantasy", "A tale.", nil, "draft", now, "", 0, now, now}
}

func TestRepo_Create(t *testing.T) {
	userID := uuid.New()
	storyID := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "successful creation",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(storyTestColumns).
					AddRow(storyRowValues(storyID, userID, "The Long Road", now)...)
				mock.ExpectQuery(`INSERT INTO stories`).
					WillReturnRows(rows)
			},
		},
		{
			name: "database error is wrapped",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO stories`).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testhelper.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			result, err := repo.Create(context.Background(), userID, &domain.Story{
				Title:     "The Long Road",
				Genre:     "fantasy",
				Synopsis:  "A tale.",
				Status:    domain.StoryStatusDraft,
				StartDate: now,
			})

			if (err != nil) != (tt.wantErr != nil) {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if result.ID != storyID {
					t.Errorf("Create() id = %v, want %v", result.ID, storyID)
				}
				if result.Status != domain.StoryStatusDraft {
					t.Errorf("Create() status = %q, want %q", result.Status, domain.StoryStatusDraft)
				}
			}

			testhelper.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_GetByID(t *testing.T) {
	userID := uuid.New()
	storyID := uuid.New()
	now := time.Now()

	tests := []struct {
		name        string
		setup       func(mock pgxmock.PgxPoolIface)
		wantErr     bool
		wantErrIs   error
		wantStoryID uuid.UUID
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(storyTestColumns).
					AddRow(storyRowValues(storyID, userID, "The Long Road", now)...)
				mock.ExpectQuery(`SELECT`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(rows)
			},
			wantStoryID: storyID,
		},
		{
			name: "not found maps to domain error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr:   true,
			wantErrIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testhelper.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			result, err := repo.GetByID(context.Background(), userID, storyID)

			if (err != nil) != tt.wantErr {
				t.Fatalf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
				t.Errorf("GetByID() error = %v, want %v", err, tt.wantErrIs)
			}
			if !tt.wantErr && result.ID != tt.wantStoryID {
				t.Errorf("GetByID() id = %v, want %v", result.ID, tt.wantStoryID)
			}

			testhelper.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_ListByUser(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantLen int
	}{
		{
			name: "returns stories newest first",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(storyTestColumns).
					AddRow(storyRowValues(uuid.New(), userID, "Second", now)...).
					AddRow(storyRowValues(uuid.New(), userID, "First", now.Add(-time.Hour))...)
				mock.ExpectQuery(`SELECT`).
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "no stories returns empty slice, not nil",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows(storyTestColumns))
			},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testhelper.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			result, err := repo.ListByUser(context.Background(), userID)
			if err != nil {
				t.Fatalf("ListByUser() error = %v", err)
			}
			if result == nil {
				t.Fatal("ListByUser() returned nil slice")
			}
			if len(result) != tt.wantLen {
				t.Errorf("ListByUser() returned %d stories, want %d", len(result), tt.wantLen)
			}

			testhelper.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_Update(t *testing.T) {
	userID := uuid.New()
	storyID := uuid.New()
	now := time.Now()
	newTitle := "Renamed"

	tests := []struct {
		name      string
		upd       domain.StoryUpdate
		setup     func(mock pgxmock.PgxPoolIface)
		wantErrIs error
	}{
		{
			name: "partial update touches only set fields",
			upd:  domain.StoryUpdate{Title: &newTitle},
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(storyTestColumns).
					AddRow(storyRowValues(storyID, userID, newTitle, now)...)
				mock.ExpectQuery(`UPDATE stories`).
					WillReturnRows(rows)
			},
		},
		{
			name: "empty update still advances updated_at",
			upd:  domain.StoryUpdate{},
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(storyTestColumns).
					AddRow(storyRowValues(storyID, userID, "The Long Road", now)...)
				mock.ExpectQuery(`UPDATE stories`).
					WillReturnRows(rows)
			},
		},
		{
			name: "missing story maps to domain error",
			upd:  domain.StoryUpdate{Title: &newTitle},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE stories`).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErrIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testhelper.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			result, err := repo.Update(context.Background(), userID, storyID, tt.upd)

			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErrIs)
				}
			} else {
				if err != nil {
					t.Fatalf("Update() error = %v", err)
				}
				if result.ID != storyID {
					t.Errorf("Update() id = %v, want %v", result.ID, storyID)
				}
			}

			testhelper.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_Delete(t *testing.T) {
	userID := uuid.New()
	storyID := uuid.New()

	tests := []struct {
		name      string
		setup     func(mock pgxmock.PgxPoolIface)
		wantErrIs error
	}{
		{
			name: "successful delete",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM stories`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "zero rows affected maps to not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM stories`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErrIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testhelper.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			err := repo.Delete(context.Background(), userID, storyID)

			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Errorf("Delete() error = %v, want %v", err, tt.wantErrIs)
				}
			} else if err != nil {
				t.Errorf("Delete() error = %v", err)
			}

			testhelper.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_RefreshWordCount(t *testing.T) {
	storyID := uuid.New()

	querier, mock := testhelper.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectExec(`UPDATE stories`).
		WithArgs(storyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RefreshWordCount(context.Background(), storyID); err != nil {
		t.Errorf("RefreshWordCount() error = %v", err)
	}

	testhelper.ExpectationsWereMet(t, mock)
}
