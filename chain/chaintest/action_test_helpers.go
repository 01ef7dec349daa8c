// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/tstate"
)

var _ state.Mutable = (*InMemoryStore)(nil)

// InMemoryStore is an in-memory implementation of `state.Mutable`
type InMemoryStore struct {
	Storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Storage: make(map[string][]byte),
	}
}

func (i *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := i.Storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (i *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	i.Storage[string(key)] = value
	return nil
}

// ActionTest is a single parameterized test. It executes the action against
// a view of [State] and, if the action succeeds, writes the view back the
// same way the processor would.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules chain.Rules
	State *InMemoryStore
	Actor common.Address

	ExpectedOutput chain.Typed
	ExpectedErr    error
	ExpectedEvents []*chain.TransferEvent

	Assertion func(context.Context, *testing.T, state.Immutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		view := tstate.NewView(test.State)
		events := &chain.EventLog{}
		output, err := test.Action.Execute(ctx, test.Rules, view, test.Actor, events)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutput, output)
		if err != nil {
			view.Discard()
			require.Empty(events.Transfers())
		} else {
			for _, kv := range view.Changes() {
				require.NoError(test.State.Insert(ctx, kv.Key, kv.Value))
			}
			if len(test.ExpectedEvents) == 0 {
				require.Empty(events.Transfers())
			} else {
				require.Equal(test.ExpectedEvents, events.Transfers())
			}
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// ActionBenchmark is a parameterized benchmark. To avoid using shared state
// between runs, a new state is created for each iteration using the provided
// `CreateState` function.
type ActionBenchmark struct {
	Name   string
	Action chain.Action

	Rules       chain.Rules
	CreateState func() state.Mutable
	Actor       common.Address

	ExpectedOutput chain.Typed
	ExpectedErr    error
}

// Run executes the [ActionBenchmark] and make sure all the benchmark assertions pass.
func (test *ActionBenchmark) Run(ctx context.Context, b *testing.B) {
	require := require.New(b)

	states := make([]state.Mutable, b.N)
	for i := 0; i < b.N; i++ {
		states[i] = test.CreateState()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		output, err := test.Action.Execute(ctx, test.Rules, states[i], test.Actor, &chain.EventLog{})
		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutput, output)
	}
}
