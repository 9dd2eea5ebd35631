package wechatrepofakes

import (
	"context"
	"sync"

	"github.com/hookbridge/hookbridge/wechat"
)

var _ wechat.Repo = (*FakeWeChatRepo)(nil)

// FakeWeChatRepo is an in-memory wechat.Repo for tests and local runs.
type FakeWeChatRepo struct {
	lock    sync.RWMutex
	nextID  int64
	configs map[int64]*wechat.Config // tenantID -> config
}

func NewFakeWeChatRepo() *FakeWeChatRepo {
	return &FakeWeChatRepo{
		nextID:  1,
		configs: make(map[int64]*wechat.Config),
	}
}

func (wr *FakeWeChatRepo) GetByTenantID(_ context.Context, tenantID int64) (*wechat.Config, error) {
	wr.lock.RLock()
	defer wr.lock.RUnlock()
	c, ok := wr.configs[tenantID]
	if !ok {
		return nil, wechat.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (wr *FakeWeChatRepo) Upsert(_ context.Context, config *wechat.Config) (*wechat.Config, error) {
	wr.lock.Lock()
	defer wr.lock.Unlock()
	stored := *config
	if existing, ok := wr.configs[config.TenantID]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = wr.nextID
		wr.nextID++
	}
	wr.configs[stored.TenantID] = &stored
	copied := stored
	return &copied, nil
}
