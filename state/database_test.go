// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabaseApply(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := NewMemoryDatabase()

	_, err := db.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Apply(ctx, []KeyValue{
		{Key: []byte("a"), Value: []byte{1}},
		{Key: []byte("b"), Value: []byte{2}},
	}))
	v, err := db.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	require.NoError(db.Apply(ctx, []KeyValue{{Key: []byte("a"), Value: []byte{3}}}))
	v, err = db.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte{3}, v)

	require.NoError(db.Close())
}
