// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const lifecyclePlan = `
name: lifecycle
description: two executors claim the task and one is paid
accounts:
  owner: "0x000000000000000000000000000000000000000a"
  alice: "0x000000000000000000000000000000000000000e"
  bob: "0x000000000000000000000000000000000000000f"
steps:
  - description: reward before deployment
    method: getCurrentReward
    caller: owner
    require:
      error: not initialized
  - description: deploy
    method: constructor
    caller: owner
    params:
      totalSupply: 10000
      task: "0x000000000000000000000000000000000000000000000000000000007461736b"
      minExecutors: "0x0000000000000000000000000000000000000000000000000000000000000001"
      maxExecutors: "0x0000000000000000000000000000000000000000000000000000000000000005"
      blocksBeforeDeadline: "0x0000000000000000000000000000000000000000000000000000000000000064"
    require:
      result:
        field: balance
        operator: "=="
        value: "10000"
  - method: getTask
    caller: alice
    require:
      result:
        field: executors
        operator: "=="
        value: "1"
  - method: getTask
    caller: bob
  - method: getCurrentReward
    caller: owner
    require:
      result:
        field: reward
        operator: "=="
        value: "5000"
  - method: sendAnswer
    caller: alice
    params:
      answer: 42
    require:
      result:
        field: success
        operator: "=="
        value: "true"
  - method: deposit
    caller: owner
    params:
      amount: 5000
    require:
      result:
        field: contractBalance
        operator: "=="
        value: "5000"
  - method: transferReward
    caller: owner
    params:
      to: alice
      amount: 100
    require:
      result:
        field: transfers
        operator: "=="
        value: "1"
  - method: balanceOf
    caller: owner
    params:
      address: alice
    require:
      result:
        field: balance
        operator: "=="
        value: "100"
  - method: status
    caller: owner
    require:
      result:
        field: answersSubmitted
        operator: ">="
        value: "1"
`

func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func readResponses(t *testing.T, out string) []*Response {
	t.Helper()

	var responses []*Response
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		resp := &Response{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), resp))
		responses = append(responses, resp)
	}
	require.NoError(t, scanner.Err())
	return responses
}

func TestRunPlan(t *testing.T) {
	require := require.New(t)

	out, err := executeRoot(t, lifecyclePlan, "run", "-")
	require.NoError(err)

	responses := readResponses(t, out)
	require.Len(responses, 10)
	require.Equal("not initialized", responses[0].Error)
	require.Equal("constructor", responses[1].Method)

	// deposit then payout
	require.Len(responses[6].Transfers, 1)
	require.Len(responses[7].Transfers, 1)
	require.Equal(uint64(100), responses[7].Transfers[0].Value.Uint64())
	require.Empty(responses[8].Transfers)
}

func TestRunPlanAssertionFailure(t *testing.T) {
	require := require.New(t)

	plan := `{
	"steps": [
		{
			"method": "status",
			"caller": "0x000000000000000000000000000000000000000a",
			"require": {"result": {"field": "initialized", "operator": "==", "value": "true"}}
		},
		{
			"method": "status",
			"caller": "0x000000000000000000000000000000000000000a"
		}
	]
}`
	out, err := executeRoot(t, plan, "run", "-")
	require.ErrorIs(err, ErrAssertionFailed)
	// execution stops at the failing step
	require.Len(readResponses(t, out), 1)
}

func TestRunPlanVerify(t *testing.T) {
	tests := []struct {
		name        string
		plan        string
		expectedErr error
	}{
		{
			name:        "no steps",
			plan:        `{"name": "empty", "steps": []}`,
			expectedErr: ErrInvalidPlan,
		},
		{
			name:        "unknown method",
			plan:        `{"steps": [{"method": "withdraw", "caller": "0x000000000000000000000000000000000000000a"}]}`,
			expectedErr: ErrInvalidStep,
		},
		{
			name:        "unknown caller",
			plan:        `{"steps": [{"method": "status", "caller": "mallory"}]}`,
			expectedErr: ErrInvalidCaller,
		},
		{
			name: "unknown operator",
			plan: `{"steps": [{
				"method": "status",
				"caller": "0x000000000000000000000000000000000000000a",
				"require": {"result": {"field": "initialized", "operator": "~", "value": "true"}}
			}]}`,
			expectedErr: ErrInvalidOperator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeRoot(t, tt.plan, "run", "-")
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestRunAndInspectPersistentStore(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	cfg, err := json.Marshal(map[string]interface{}{
		"storeBackend": "pebble",
		"dataDir":      filepath.Join(dir, "data"),
	})
	require.NoError(err)
	require.NoError(os.WriteFile(configPath, cfg, 0o600))

	_, err = executeRoot(t, lifecyclePlan, "--config", configPath, "run", "-")
	require.NoError(err)

	out, err := executeRoot(t, "", "--config", configPath,
		"inspect", "--address", "0x000000000000000000000000000000000000000e")
	require.NoError(err)

	var inspected struct {
		Status struct {
			Initialized      bool   `json:"initialized"`
			Executors        string `json:"executors"`
			AnswersSubmitted string `json:"answersSubmitted"`
			ContractBalance  string `json:"contractBalance"`
		} `json:"status"`
		Balances map[string]string `json:"balances"`
	}
	require.NoError(json.Unmarshal([]byte(out), &inspected))
	require.True(inspected.Status.Initialized)
	require.Equal("2", inspected.Status.Executors)
	require.Equal("1", inspected.Status.AnswersSubmitted)
	require.Equal("4900", inspected.Status.ContractBalance)
	require.Equal("100", inspected.Balances["0x000000000000000000000000000000000000000e"])
}
