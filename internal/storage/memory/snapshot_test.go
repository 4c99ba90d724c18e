package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/storage/memory"
)

func TestRepositoryReplaceSnapshot(t *testing.T) {
	tests := map[string]struct {
		next   func(cur model.Snapshot) model.Snapshot
		expErr error
	}{
		"Replacing with the next version should work": {
			next: func(cur model.Snapshot) model.Snapshot {
				n := cur.Clone()
				n.Version++
				n.Tasks[0].Progress = 60
				return n
			},
		},

		"Replacing with a stale version should fail": {
			next: func(cur model.Snapshot) model.Snapshot {
				return cur.Clone()
			},
			expErr: model.ErrConflict,
		},

		"Replacing skipping versions should fail": {
			next: func(cur model.Snapshot) model.Snapshot {
				n := cur.Clone()
				n.Version += 2
				return n
			},
			expErr: model.ErrConflict,
		},

		"Replacing dropping tasks should fail": {
			next: func(cur model.Snapshot) model.Snapshot {
				n := cur.Clone()
				n.Version++
				n.Tasks = n.Tasks[:1]
				return n
			},
			expErr: model.ErrNotValid,
		},

		"Replacing reordering tasks should fail": {
			next: func(cur model.Snapshot) model.Snapshot {
				n := cur.Clone()
				n.Version++
				n.Tasks[0], n.Tasks[1] = n.Tasks[1], n.Tasks[0]
				return n
			},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo, err := memory.NewRepository(memory.RepositoryConfig{Tasks: seed()})
			require.NoError(t, err)

			cur, err := repo.GetSnapshot(ctx)
			require.NoError(t, err)
			next := test.next(*cur)

			err = repo.ReplaceSnapshot(ctx, next)

			got, gerr := repo.GetSnapshot(ctx)
			require.NoError(t, gerr)
			if test.expErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, test.expErr))
				assert.Equal(t, *cur, *got, "failed replacements must not change the store")
			} else {
				require.NoError(t, err)
				assert.Equal(t, next, *got)

				task, err := repo.GetTask(ctx, "1")
				require.NoError(t, err)
				assert.Equal(t, 60, task.Progress)
			}
		})
	}
}
