// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/state"
)

// GetBalance returns the balance of [addr]. Accounts that never received
// anything have a zero balance.
func GetBalance(
	ctx context.Context,
	im state.Immutable,
	addr common.Address,
) (*uint256.Int, error) {
	return getUint(ctx, im, BalanceKey(addr))
}

func SetBalance(
	ctx context.Context,
	mu state.Mutable,
	addr common.Address,
	balance *uint256.Int,
) error {
	return setUint(ctx, mu, BalanceKey(addr), balance)
}

func AddBalance(
	ctx context.Context,
	mu state.Mutable,
	addr common.Address,
	amount *uint256.Int,
) (*uint256.Int, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return nil, err
	}
	nbal, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return nil, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, SetBalance(ctx, mu, addr, nbal)
}

func SubBalance(
	ctx context.Context,
	mu state.Mutable,
	addr common.Address,
	amount *uint256.Int,
) (*uint256.Int, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return nil, err
	}
	nbal, underflow := new(uint256.Int).SubOverflow(bal, amount)
	if underflow {
		return nil, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, SetBalance(ctx, mu, addr, nbal)
}
