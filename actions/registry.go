// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/taskescrow/chain"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrDuplicateName = errors.New("duplicate action name")
)

// Registry maps external method names onto fresh action instances.
type Registry struct {
	nameToID    map[string]uint8
	idToFactory map[uint8]func() chain.Action
}

func NewRegistry() *Registry {
	return &Registry{
		nameToID:    map[string]uint8{},
		idToFactory: map[uint8]func() chain.Action{},
	}
}

func (r *Registry) Register(name string, f func() chain.Action) error {
	if _, ok := r.nameToID[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	id := f().GetTypeID()
	r.nameToID[name] = id
	r.idToFactory[id] = f
	return nil
}

func (r *Registry) LookupName(name string) (chain.Action, bool) {
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.idToFactory[id](), true
}

func (r *Registry) LookupID(id uint8) (chain.Action, bool) {
	f, ok := r.idToFactory[id]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Decode builds the action registered as [name] and fills it from [params].
// Empty params leave the action zero valued.
func (r *Registry) Decode(name string, params json.RawMessage) (chain.Action, error) {
	action, ok := r.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if len(params) == 0 {
		return action, nil
	}
	if err := json.Unmarshal(params, action); err != nil {
		return nil, fmt.Errorf("unable to decode %s params: %w", name, err)
	}
	return action, nil
}

func (r *Registry) Names() []string {
	names := maps.Keys(r.nameToID)
	slices.Sort(names)
	return names
}

// NewDefaultRegistry registers every action under the name callers use for
// it on the wire.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, f := range map[string]func() chain.Action{
		"constructor":                     func() chain.Action { return &Construct{} },
		"getTask":                         func() chain.Action { return &GetTask{} },
		"getNumberOfBlocksBeforeDeadline": func() chain.Action { return &GetDeadline{} },
		"getCurrentReward":                func() chain.Action { return &GetCurrentReward{} },
		"sendAnswer":                      func() chain.Action { return &SendAnswer{} },
		"transferReward":                  func() chain.Action { return &TransferReward{} },
		"deposit":                         func() chain.Action { return &Deposit{} },
		"balanceOf":                       func() chain.Action { return &BalanceOf{} },
		"answer":                          func() chain.Action { return &Answer{} },
		"status":                          func() chain.Action { return &Status{} },
	} {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	return r
}
