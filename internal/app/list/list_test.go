package list_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config list.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: list.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Logger:     log.Noop,
			},
			expErr: false,
		},
		"missing repository should fail": {
			config: list.ServiceConfig{
				Logger: log.Noop,
			},
			expErr: true,
		},
		"nil logger should default to noop": {
			config: list.ServiceConfig{
				Repository: &storagemock.MockRepository{},
			},
			expErr: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := list.NewService(test.config)

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

func testTasks() []model.Task {
	return []model.Task{
		{ID: "1", Name: "Quarterly Forecast", User: "You", LLM: model.LLMClaudeSonnet, Status: model.StatusRunning, Progress: 40},
		{ID: "2", Name: "Supplier Contract Review", User: "Ava", LLM: model.LLMGPT4, Status: model.StatusRunning, Progress: 60},
		{ID: "3", Name: "RFP Response Assembly", User: "You", LLM: model.LLMKimiK2, Status: model.StatusComplete, Progress: 100},
		{ID: "4", Name: "Onboarding Docs", User: "Liam", LLM: model.LLMGPT4, Status: model.StatusQueued, Progress: 0},
	}
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestService_Run(t *testing.T) {
	allCounts := model.Counts{Total: 4, Running: 2, Queued: 1, Complete: 1}

	tests := map[string]struct {
		mock      func(m *storagemock.MockRepository)
		req       list.Request
		expIDs    []string
		expCounts model.Counts
		expErr    bool
	}{
		"empty scope should default to team": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(testTasks(), nil)
			},
			req:       list.Request{ActiveUser: "You"},
			expIDs:    []string{"1", "2", "3", "4"},
			expCounts: allCounts,
		},
		"individual scope should return only the active user tasks": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(testTasks(), nil)
			},
			req:       list.Request{Scope: model.ScopeIndividual, ActiveUser: "You"},
			expIDs:    []string{"1", "3"},
			expCounts: allCounts,
		},
		"search should apply after the scope": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(testTasks(), nil)
			},
			req:       list.Request{Scope: model.ScopeIndividual, ActiveUser: "You", Query: "gpt"},
			expIDs:    []string{},
			expCounts: allCounts,
		},
		"search on team scope should match the LLM": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(testTasks(), nil)
			},
			req:       list.Request{Scope: model.ScopeTeam, Query: "GPT-4"},
			expIDs:    []string{"2", "4"},
			expCounts: allCounts,
		},
		"empty store should return no tasks": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return([]model.Task{}, nil)
			},
			req:    list.Request{Scope: model.ScopeTeam},
			expIDs: []string{},
		},
		"unknown scope should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    list.Request{Scope: "org"},
			expErr: true,
		},
		"repository error should propagate": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			req:    list.Request{Scope: model.ScopeTeam},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			test.mock(m)

			svc, err := list.NewService(list.ServiceConfig{
				Repository: m,
				Logger:     log.Noop,
			})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expIDs, taskIDs(resp.Tasks))
				assert.Equal(test.expCounts, resp.Counts)
			}

			m.AssertExpectations(t)
		})
	}
}
