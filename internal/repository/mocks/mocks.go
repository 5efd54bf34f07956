package mocks

import (
	"context"

	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/repository"
	"github.com/stretchr/testify/mock"
)

// KV is a mock for repository.KV.
type KV struct {
	mock.Mock
}

func (m *KV) Get(ctx context.Context, c repository.Collection, id string) ([]byte, error) {
	args := m.Called(ctx, c, id)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KV) Put(ctx context.Context, c repository.Collection, id string, data []byte) error {
	args := m.Called(ctx, c, id, data)
	return args.Error(0)
}

func (m *KV) Delete(ctx context.Context, c repository.Collection, id string) error {
	args := m.Called(ctx, c, id)
	return args.Error(0)
}

func (m *KV) Scan(ctx context.Context, c repository.Collection) ([][]byte, error) {
	args := m.Called(ctx, c)
	if rows, ok := args.Get(0).([][]byte); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// Batch runs fn against a buffer so expectations can inspect the staged ops.
func (m *KV) Batch(ctx context.Context, fn func(w repository.Writer) error) error {
	buf := &repository.OpBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	args := m.Called(ctx, buf.Ops)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
