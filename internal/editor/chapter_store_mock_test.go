package editor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/store"
)

var _ chapterStore = &chapterStoreMock{}

type chapterStoreMock struct {
	StoryByIDFunc     func(storyID uuid.UUID) (domain.Story, bool)
	AddChapterFunc    func(ctx context.Context, storyID uuid.UUID, input store.ChapterInput) (*domain.Chapter, error)
	UpdateChapterFunc func(ctx context.Context, storyID uuid.UUID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error)
	NotifyFunc        func(ctx context.Context, message string)

	calls struct {
		StoryByID []struct {
			StoryID uuid.UUID
		}
		AddChapter []struct {
			Ctx     context.Context
			StoryID uuid.UUID
			Input   store.ChapterInput
		}
		UpdateChapter []struct {
			Ctx       context.Context
			StoryID   uuid.UUID
			ChapterID uuid.UUID
			Upd       domain.ChapterUpdate
		}
		Notify []struct {
			Ctx     context.Context
			Message string
		}
	}
	lockStoryByID     sync.RWMutex
	lockAddChapter    sync.RWMutex
	lockUpdateChapter sync.RWMutex
	lockNotify        sync.RWMutex
}

func (mock *chapterStoreMock) StoryByID(storyID uuid.UUID) (domain.Story, bool) {
	if mock.StoryByIDFunc == nil {
		panic("chapterStoreMock.StoryByIDFunc: method is nil but chapterStore.StoryByID was just called")
	}
	callInfo := struct {
		StoryID uuid.UUID
	}{StoryID: storyID}
	mock.lockStoryByID.Lock()
	mock.calls.StoryByID = append(mock.calls.StoryByID, callInfo)
	mock.lockStoryByID.Unlock()
	return mock.StoryByIDFunc(storyID)
}

func (mock *chapterStoreMock) StoryByIDCalls() []struct {
	StoryID uuid.UUID
} {
	mock.lockStoryByID.RLock()
	calls := mock.calls.StoryByID
	mock.lockStoryByID.RUnlock()
	return calls
}

func (mock *chapterStoreMock) AddChapter(ctx context.Context, storyID uuid.UUID, input store.ChapterInput) (*domain.Chapter, error) {
	if mock.AddChapterFunc == nil {
		panic("chapterStoreMock.AddChapterFunc: method is nil but chapterStore.AddChapter was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		StoryID uuid.UUID
		Input   store.ChapterInput
	}{Ctx: ctx, StoryID: storyID, Input: input}
	mock.lockAddChapter.Lock()
	mock.calls.AddChapter = append(mock.calls.AddChapter, callInfo)
	mock.lockAddChapter.Unlock()
	return mock.AddChapterFunc(ctx, storyID, input)
}

func (mock *chapterStoreMock) AddChapterCalls() []struct {
	Ctx     context.Context
	StoryID uuid.UUID
	Input   store.ChapterInput
} {
	mock.lockAddChapter.RLock()
	calls := mock.calls.AddChapter
	mock.lockAddChapter.RUnlock()
	return calls
}

func (mock *chapterStoreMock) UpdateChapter(ctx context.Context, storyID uuid.UUID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error) {
	if mock.UpdateChapterFunc == nil {
		panic("chapterStoreMock.UpdateChapterFunc: method is nil but chapterStore.UpdateChapter was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		StoryID   uuid.UUID
		ChapterID uuid.UUID
		Upd       domain.ChapterUpdate
	}{Ctx: ctx, StoryID: storyID, ChapterID: chapterID, Upd: upd}
	mock.lockUpdateChapter.Lock()
	mock.calls.UpdateChapter = append(mock.calls.UpdateChapter, callInfo)
	mock.lockUpdateChapter.Unlock()
	return mock.UpdateChapterFunc(ctx, storyID, chapterID, upd)
}

func (mock *chapterStoreMock) UpdateChapterCalls() []struct {
	Ctx       context.Context
	StoryID   uuid.UUID
	ChapterID uuid.UUID
	Upd       domain.ChapterUpdate
} {
	mock.lockUpdateChapter.RLock()
	calls := mock.calls.UpdateChapter
	mock.lockUpdateChapter.RUnlock()
	return calls
}

func (mock *chapterStoreMock) Notify(ctx context.Context, message string) {
	if mock.NotifyFunc == nil {
		panic("chapterStoreMock.NotifyFunc: method is nil but chapterStore.Notify was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Message string
	}{Ctx: ctx, Message: message}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	mock.NotifyFunc(ctx, message)
}

func (mock *chapterStoreMock) NotifyCalls() []struct {
	Ctx     context.Context
	Message string
} {
	mock.lockNotify.RLock()
	calls := mock.calls.Notify
	mock.lockNotify.RUnlock()
	return calls
}
