package auth

import (
	"context"
	"sync"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	CreateFunc func(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)

	calls struct {
		Create []struct {
			Ctx     context.Context
			Profile *domain.Profile
		}
	}
	lockCreate sync.RWMutex
}

func (mock *profileRepoMock) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if mock.CreateFunc == nil {
		panic("profileRepoMock.CreateFunc: method is nil but profileRepo.Create was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Profile *domain.Profile
	}{Ctx: ctx, Profile: profile}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, profile)
}

func (mock *profileRepoMock) CreateCalls() []struct {
	Ctx     context.Context
	Profile *domain.Profile
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
