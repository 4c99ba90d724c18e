package tick_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/simulation"
	"github.com/slok/opsq/internal/storage/memory"
	"github.com/slok/opsq/internal/storage/storagemock"
)

type engineFunc func(model.Snapshot, time.Time) (model.Snapshot, simulation.TickReport)

func (f engineFunc) Tick(s model.Snapshot, now time.Time) (model.Snapshot, simulation.TickReport) {
	return f(s, now)
}

func TestNewService(t *testing.T) {
	noopEngine := engineFunc(func(s model.Snapshot, _ time.Time) (model.Snapshot, simulation.TickReport) {
		return s, simulation.TickReport{}
	})

	tests := map[string]struct {
		config tick.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: tick.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Engine:     noopEngine,
				Logger:     log.Noop,
			},
		},
		"missing repository should fail": {
			config: tick.ServiceConfig{
				Engine: noopEngine,
			},
			expErr: true,
		},
		"missing engine should fail": {
			config: tick.ServiceConfig{
				Repository: &storagemock.MockRepository{},
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := tick.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	now := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	cur := model.Snapshot{Version: 4, Tasks: []model.Task{{ID: "1", Status: model.StatusRunning}}}
	next := model.Snapshot{Version: 5, Tasks: []model.Task{{ID: "1", Status: model.StatusComplete, Progress: 100}}}
	report := simulation.TickReport{Version: 5, TasksCompleted: []string{"1"}}

	engine := engineFunc(func(s model.Snapshot, n time.Time) (model.Snapshot, simulation.TickReport) {
		if s.Version != 4 || !n.Equal(now) {
			panic("unexpected tick input")
		}
		return next, report
	})

	tests := map[string]struct {
		mock   func(m *storagemock.MockRepository)
		expRes *tick.Response
		expErr bool
	}{
		"a tick should replace the snapshot with the engine result": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSnapshot", mock.Anything).Once().Return(&cur, nil)
				m.On("ReplaceSnapshot", mock.Anything, next).Once().Return(nil)
			},
			expRes: &tick.Response{Report: report, AllComplete: true},
		},
		"snapshot read error should propagate": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSnapshot", mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			expErr: true,
		},
		"snapshot replace error should propagate": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSnapshot", mock.Anything).Once().Return(&cur, nil)
				m.On("ReplaceSnapshot", mock.Anything, next).Once().Return(model.ErrConflict)
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			test.mock(m)

			svc, err := tick.NewService(tick.ServiceConfig{
				Repository: m,
				Engine:     engine,
				Clock:      clock.NewManual(now),
			})
			require.NoError(err)

			res, err := svc.Run(context.Background(), tick.Request{})

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
				assert.Equal(test.expRes, res)
			}

			m.AssertExpectations(t)
		})
	}
}

func TestService_RunWithMemoryStore(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	now := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	repo, err := memory.NewRepository(memory.RepositoryConfig{Tasks: []model.Task{
		{ID: "1", Name: "a", User: "You", StartTime: now, Status: model.StatusRunning, Progress: 50, Steps: []model.Step{
			{Name: "s1", Status: model.StatusRunning, Progress: 99},
		}},
	}})
	require.NoError(err)

	engine, err := simulation.NewEngine(simulation.EngineConfig{Random: simulation.NewRandom(1)})
	require.NoError(err)

	c := clock.NewManual(now)
	c.Advance(time.Minute)
	svc, err := tick.NewService(tick.ServiceConfig{Repository: repo, Engine: engine, Clock: c})
	require.NoError(err)

	res, err := svc.Run(context.Background(), tick.Request{})
	require.NoError(err)
	assert.True(res.AllComplete)
	assert.Equal([]string{"1"}, res.Report.TasksCompleted)

	task, err := repo.GetTask(context.Background(), "1")
	require.NoError(err)
	assert.Equal(model.StatusComplete, task.Status)
	assert.Equal("1m 0s", task.Duration)

	// Complete tasks are frozen on later ticks.
	_, err = svc.Run(context.Background(), tick.Request{})
	require.NoError(err)
	again, err := repo.GetTask(context.Background(), "1")
	require.NoError(err)
	assert.Equal(task, again)

	snap, err := repo.GetSnapshot(context.Background())
	require.NoError(err)
	assert.Equal(uint64(2), snap.Version)
}
