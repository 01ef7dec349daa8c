// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/chain/chaintest"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	owner     = common.HexToAddress("0x0a")
	executor  = common.HexToAddress("0x0e")
	stranger  = common.HexToAddress("0x0f")
	contract  = common.HexToAddress("0xc0")
	taskRef   = common.HexToHash("0x7461736b")
	minExec   = common.BigToHash(uint256.NewInt(1).ToBig())
	maxExec   = common.BigToHash(uint256.NewInt(5).ToBig())
	deadline  = common.BigToHash(uint256.NewInt(100).ToBig())
	testRules = chain.NewDefaultRules(contract)
)

func newConstruct(supply uint64) *Construct {
	return &Construct{
		TotalSupply:          uint256.NewInt(supply),
		Task:                 taskRef,
		MinExecutors:         minExec,
		MaxExecutors:         maxExec,
		BlocksBeforeDeadline: deadline,
	}
}

// newConstructedStore returns a ledger constructed by [owner] with
// [executors] calls to GetTask already made.
func newConstructedStore(t *testing.T, supply uint64, executors int) *chaintest.InMemoryStore {
	require := require.New(t)
	ctx := context.Background()

	store := chaintest.NewInMemoryStore()
	_, err := newConstruct(supply).Execute(ctx, testRules, store, owner, &chain.EventLog{})
	require.NoError(err)
	for i := 0; i < executors; i++ {
		_, err := (&GetTask{}).Execute(ctx, testRules, store, executor, &chain.EventLog{})
		require.NoError(err)
	}
	return store
}

func fund(t *testing.T, store *chaintest.InMemoryStore, amount uint64) {
	_, err := (&Deposit{Amount: uint256.NewInt(amount)}).Execute(
		context.Background(), testRules, store, owner, &chain.EventLog{},
	)
	require.NoError(t, err)
}

func requireBalance(ctx context.Context, t *testing.T, im state.Immutable, addr common.Address, expected uint64) {
	bal, err := storage.GetBalance(ctx, im, addr)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(expected), bal, "balance of %s", addr)
}

func requireExecutors(ctx context.Context, t *testing.T, im state.Immutable, expected uint64) {
	count, err := storage.GetExecutorCount(ctx, im)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(expected), count)
}

func requireAnswers(ctx context.Context, t *testing.T, im state.Immutable, expected uint64) {
	count, err := storage.GetAnswersSubmitted(ctx, im)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(expected), count)
}

func TestConstruct(t *testing.T) {
	store := chaintest.NewInMemoryStore()

	tests := []chaintest.ActionTest{
		{
			Name:   "NilSupply",
			Action: &Construct{},
			Rules:  testRules,
			State:  store,
			Actor:  owner,

			ExpectedErr: ErrNilValue,
		},
		{
			Name:   "Construct",
			Action: newConstruct(10000),
			Rules:  testRules,
			State:  store,
			Actor:  owner,

			ExpectedOutput: &ConstructResult{
				Owner:   owner,
				Balance: uint256.NewInt(10000),
			},
			Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
				require := require.New(t)

				task, err := storage.GetTask(ctx, im)
				require.NoError(err)
				require.Equal(&storage.Task{
					TotalSupply:          uint256.NewInt(10000),
					Owner:                owner,
					Reference:            taskRef,
					MinExecutors:         minExec,
					MaxExecutors:         maxExec,
					BlocksBeforeDeadline: deadline,
				}, task)
				requireBalance(ctx, t, im, owner, 10000)
				requireExecutors(ctx, t, im, 0)
				requireAnswers(ctx, t, im, 0)
			},
		},
		{
			Name:   "AlreadyInitialized",
			Action: newConstruct(1),
			Rules:  testRules,
			State:  store,
			Actor:  stranger,

			ExpectedErr: ErrAlreadyInitialized,
			Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
				o, err := storage.GetOwner(ctx, im)
				require.NoError(t, err)
				require.Equal(t, owner, o)
				requireBalance(ctx, t, im, owner, 10000)
				requireBalance(ctx, t, im, stranger, 0)
			},
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestNotInitialized(t *testing.T) {
	store := chaintest.NewInMemoryStore()

	tests := map[string]chain.Action{
		"GetTask":          &GetTask{},
		"GetDeadline":      &GetDeadline{},
		"GetCurrentReward": &GetCurrentReward{},
		"SendAnswer":       &SendAnswer{Answer: uint256.NewInt(1)},
		"TransferReward":   &TransferReward{To: executor, Amount: uint256.NewInt(1)},
		"Deposit":          &Deposit{Amount: uint256.NewInt(1)},
		"BalanceOf":        &BalanceOf{Address: owner},
		"Answer":           &Answer{Index: 1},
	}

	ctx := context.Background()
	for name, action := range tests {
		(&chaintest.ActionTest{
			Name:        name,
			Action:      action,
			Rules:       testRules,
			State:       store,
			Actor:       owner,
			ExpectedErr: ErrNotInitialized,
		}).Run(ctx, t)
	}
	require.Empty(t, store.Storage)

	(&chaintest.ActionTest{
		Name:           "Status",
		Action:         &Status{},
		Rules:          testRules,
		State:          store,
		Actor:          owner,
		ExpectedOutput: &StatusResult{},
	}).Run(ctx, t)
}

func TestGetTaskAndReward(t *testing.T) {
	store := newConstructedStore(t, 10000, 0)

	tests := []chaintest.ActionTest{
		{
			Name:        "RewardWithoutExecutors",
			Action:      &GetCurrentReward{},
			Rules:       testRules,
			State:       store,
			Actor:       stranger,
			ExpectedErr: ErrDivisionByZero,
		},
		{
			Name:   "FirstExecutor",
			Action: &GetTask{},
			Rules:  testRules,
			State:  store,
			Actor:  executor,
			ExpectedOutput: &GetTaskResult{
				Task:      taskRef,
				Executors: uint256.NewInt(1),
			},
		},
		{
			Name:           "FullReward",
			Action:         &GetCurrentReward{},
			Rules:          testRules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &GetCurrentRewardResult{Reward: uint256.NewInt(10000)},
		},
		{
			Name:   "SameCallerCountsTwice",
			Action: &GetTask{},
			Rules:  testRules,
			State:  store,
			Actor:  executor,
			ExpectedOutput: &GetTaskResult{
				Task:      taskRef,
				Executors: uint256.NewInt(2),
			},
		},
		{
			Name:   "ThirdExecutor",
			Action: &GetTask{},
			Rules:  testRules,
			State:  store,
			Actor:  stranger,
			ExpectedOutput: &GetTaskResult{
				Task:      taskRef,
				Executors: uint256.NewInt(3),
			},
		},
		{
			Name:           "RewardRoundsDown",
			Action:         &GetCurrentReward{},
			Rules:          testRules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &GetCurrentRewardResult{Reward: uint256.NewInt(3333)},
		},
		{
			Name:           "Deadline",
			Action:         &GetDeadline{},
			Rules:          testRules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &GetDeadlineResult{Blocks: deadline},
			Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
				requireExecutors(ctx, t, im, 3)
			},
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestSendAnswer(t *testing.T) {
	store := newConstructedStore(t, 10000, 0)
	rules := &chain.StaticRules{ContractAddress: contract, AnswerCapacity: 3}

	tests := []chaintest.ActionTest{
		{
			Name:           "First",
			Action:         &SendAnswer{Answer: uint256.NewInt(42)},
			Rules:          rules,
			State:          store,
			Actor:          executor,
			ExpectedOutput: &SendAnswerResult{Success: true, Index: 1},
		},
		{
			Name:           "Second",
			Action:         &SendAnswer{Answer: uint256.NewInt(43)},
			Rules:          rules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &SendAnswerResult{Success: true, Index: 2},
		},
		{
			Name:        "CapacityExceeded",
			Action:      &SendAnswer{Answer: uint256.NewInt(44)},
			Rules:       rules,
			State:       store,
			Actor:       executor,
			ExpectedErr: ErrCapacityExceeded,
			Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
				requireAnswers(ctx, t, im, 2)
			},
		},
		{
			Name:           "SlotZeroUnused",
			Action:         &Answer{Index: 0},
			Rules:          rules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &AnswerResult{Answer: uint256.NewInt(0)},
		},
		{
			Name:           "ReadFirst",
			Action:         &Answer{Index: 1},
			Rules:          rules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &AnswerResult{Answer: uint256.NewInt(42)},
		},
		{
			Name:           "ReadSecond",
			Action:         &Answer{Index: 2},
			Rules:          rules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &AnswerResult{Answer: uint256.NewInt(43)},
		},
		{
			Name:        "NilAnswer",
			Action:      &SendAnswer{},
			Rules:       rules,
			State:       store,
			Actor:       stranger,
			ExpectedErr: ErrNilValue,
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestSendAnswerDefaultCapacity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := newConstructedStore(t, 1, 0)
	for i := uint64(1); i < testRules.GetAnswerCapacity(); i++ {
		result, err := (&SendAnswer{Answer: uint256.NewInt(i)}).Execute(ctx, testRules, store, executor, &chain.EventLog{})
		require.NoError(err)
		require.Equal(&SendAnswerResult{Success: true, Index: i}, result)
	}

	(&chaintest.ActionTest{
		Name:        "Full",
		Action:      &SendAnswer{Answer: uint256.NewInt(1)},
		Rules:       testRules,
		State:       store,
		Actor:       executor,
		ExpectedErr: ErrCapacityExceeded,
		Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
			requireAnswers(ctx, t, im, testRules.GetAnswerCapacity()-1)
		},
	}).Run(ctx, t)
}

func TestTransferReward(t *testing.T) {
	type setup struct {
		executors int
		funding   uint64
	}
	tests := map[string]struct {
		setup  setup
		actor  common.Address
		action *TransferReward

		expectedOutput   *TransferRewardResult
		expectedEvents   []*chain.TransferEvent
		expectedContract uint64
		expectedTo       uint64
	}{
		"SingleExecutorMovesNothing": {
			setup:            setup{executors: 1},
			actor:            owner,
			action:           &TransferReward{To: executor, Amount: uint256.NewInt(1000)},
			expectedOutput:   &TransferRewardResult{Success: true},
			expectedContract: 0,
			expectedTo:       0,
		},
		"NoExecutors": {
			setup:            setup{funding: 5000},
			actor:            owner,
			action:           &TransferReward{To: executor, Amount: uint256.NewInt(1000)},
			expectedOutput:   &TransferRewardResult{Success: true},
			expectedContract: 5000,
		},
		"TwoExecutorsOneTransfer": {
			setup:          setup{executors: 2, funding: 5000},
			actor:          owner,
			action:         &TransferReward{To: executor, Amount: uint256.NewInt(1000)},
			expectedOutput: &TransferRewardResult{Success: true, Transfers: 1},
			expectedEvents: []*chain.TransferEvent{
				{From: contract, To: executor, Value: uint256.NewInt(1000)},
			},
			expectedContract: 4000,
			expectedTo:       1000,
		},
		"NotOwner": {
			setup:            setup{executors: 2, funding: 5000},
			actor:            stranger,
			action:           &TransferReward{To: stranger, Amount: uint256.NewInt(1000)},
			expectedOutput:   &TransferRewardResult{},
			expectedContract: 5000,
		},
		"PartialTransferKept": {
			setup:          setup{executors: 3, funding: 1500},
			actor:          owner,
			action:         &TransferReward{To: executor, Amount: uint256.NewInt(1000)},
			expectedOutput: &TransferRewardResult{Transfers: 1},
			expectedEvents: []*chain.TransferEvent{
				{From: contract, To: executor, Value: uint256.NewInt(1000)},
			},
			expectedContract: 500,
			expectedTo:       1000,
		},
		"ZeroAmount": {
			setup:            setup{executors: 2, funding: 5000},
			actor:            owner,
			action:           &TransferReward{To: executor, Amount: uint256.NewInt(0)},
			expectedOutput:   &TransferRewardResult{},
			expectedContract: 5000,
		},
		"InsufficientContractBalance": {
			setup:            setup{executors: 2, funding: 999},
			actor:            owner,
			action:           &TransferReward{To: executor, Amount: uint256.NewInt(1000)},
			expectedOutput:   &TransferRewardResult{},
			expectedContract: 999,
		},
		"ToContract": {
			setup:            setup{executors: 2, funding: 5000},
			actor:            owner,
			action:           &TransferReward{To: contract, Amount: uint256.NewInt(1000)},
			expectedOutput:   &TransferRewardResult{},
			expectedContract: 5000,
			expectedTo:       5000,
		},
	}
	for name, tt := range tests {
		store := newConstructedStore(t, 10000, tt.setup.executors)
		if tt.setup.funding > 0 {
			fund(t, store, tt.setup.funding)
		}
		(&chaintest.ActionTest{
			Name:           name,
			Action:         tt.action,
			Rules:          testRules,
			State:          store,
			Actor:          tt.actor,
			ExpectedOutput: tt.expectedOutput,
			ExpectedEvents: tt.expectedEvents,
			Assertion: func(ctx context.Context, t *testing.T, im state.Immutable) {
				requireBalance(ctx, t, im, contract, tt.expectedContract)
				requireBalance(ctx, t, im, tt.action.To, tt.expectedTo)
				requireBalance(ctx, t, im, owner, 10000-tt.setup.funding)
			},
		}).Run(context.Background(), t)
	}
}

func TestDeposit(t *testing.T) {
	store := newConstructedStore(t, 10000, 0)

	tests := []chaintest.ActionTest{
		{
			Name:        "ZeroValue",
			Action:      &Deposit{Amount: uint256.NewInt(0)},
			Rules:       testRules,
			State:       store,
			Actor:       owner,
			ExpectedErr: ErrValueZero,
		},
		{
			Name:        "InsufficientBalance",
			Action:      &Deposit{Amount: uint256.NewInt(10001)},
			Rules:       testRules,
			State:       store,
			Actor:       owner,
			ExpectedErr: ErrInsufficientBalance,
		},
		{
			Name:        "SelfTransfer",
			Action:      &Deposit{Amount: uint256.NewInt(1)},
			Rules:       testRules,
			State:       store,
			Actor:       contract,
			ExpectedErr: ErrSelfTransfer,
		},
		{
			Name:   "Deposit",
			Action: &Deposit{Amount: uint256.NewInt(2500)},
			Rules:  testRules,
			State:  store,
			Actor:  owner,
			ExpectedOutput: &DepositResult{
				SenderBalance:   uint256.NewInt(7500),
				ContractBalance: uint256.NewInt(2500),
			},
			ExpectedEvents: []*chain.TransferEvent{
				{From: owner, To: contract, Value: uint256.NewInt(2500)},
			},
		},
		{
			Name:           "BalanceOf",
			Action:         &BalanceOf{Address: contract},
			Rules:          testRules,
			State:          store,
			Actor:          stranger,
			ExpectedOutput: &BalanceResult{Balance: uint256.NewInt(2500)},
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestStatus(t *testing.T) {
	store := newConstructedStore(t, 900, 2)
	fund(t, store, 300)
	_, err := (&SendAnswer{Answer: uint256.NewInt(9)}).Execute(
		context.Background(), testRules, store, executor, &chain.EventLog{},
	)
	require.NoError(t, err)

	(&chaintest.ActionTest{
		Name:   "Status",
		Action: &Status{},
		Rules:  testRules,
		State:  store,
		Actor:  stranger,
		ExpectedOutput: &StatusResult{
			Initialized:          true,
			Owner:                owner,
			TotalSupply:          uint256.NewInt(900),
			Task:                 taskRef,
			MinExecutors:         minExec,
			MaxExecutors:         maxExec,
			BlocksBeforeDeadline: deadline,
			Executors:            uint256.NewInt(2),
			AnswersSubmitted:     uint256.NewInt(1),
			ContractBalance:      uint256.NewInt(300),
		},
	}).Run(context.Background(), t)
}

func BenchmarkGetTask(b *testing.B) {
	bench := &chaintest.ActionBenchmark{
		Name:   "GetTask",
		Action: &GetTask{},
		Rules:  testRules,
		CreateState: func() state.Mutable {
			store := chaintest.NewInMemoryStore()
			_, err := newConstruct(10000).Execute(context.Background(), testRules, store, owner, &chain.EventLog{})
			require.NoError(b, err)
			return store
		},
		Actor: executor,
		ExpectedOutput: &GetTaskResult{
			Task:      taskRef,
			Executors: uint256.NewInt(1),
		},
	}
	bench.Run(context.Background(), b)
}
