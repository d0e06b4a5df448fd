// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package function

import (
	"context"
	"strings"
	"sync"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/logutil/logutil2"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

// Evaluator is a function bound to the native type of its arguments.
// It holds no mutable state, one Evaluator may serve many goroutines.
type Evaluator interface {
	Name() string

	// ReturnType is the type of the result vector.
	ReturnType() types.Type

	// Eval writes the result of the selected rows. The result vector must be
	// made writable for selectList by the caller.
	Eval(proc *process.Process, parameters []*vector.Vector, result vector.FunctionResultWrapper,
		selectList *FunctionSelectList) error

	// IsDefaultNullBehavior reports whether a null argument gives a null
	// result without evaluating the function.
	IsDefaultNullBehavior() bool

	// SupportsFlatNoNullsFastPath reports whether flat arguments without nulls
	// may skip the per row null check.
	SupportsFlatNoNullsFastPath() bool
}

// Factory builds an Evaluator for name and the declared argument types, or
// returns why the arguments are not acceptable.
type Factory func(ctx context.Context, name string, args []types.Type) (Evaluator, error)

type registryItem struct {
	name    string
	factory Factory
}

func registryItemLess(a, b registryItem) bool {
	return a.name < b.name
}

// Registry maps function names to factories. It is filled by an explicit
// bootstrap step and only read afterward.
type Registry struct {
	sync.RWMutex
	tree *btree.BTreeG[registryItem]
}

func NewRegistry() *Registry {
	return &Registry{
		tree: btree.NewG(8, registryItemLess),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds factory under name. Names are case insensitive and must be unique.
func (r *Registry) Register(ctx context.Context, name string, factory Factory) error {
	name = normalizeName(name)
	r.Lock()
	defer r.Unlock()
	if _, ok := r.tree.Get(registryItem{name: name}); ok {
		return moerr.NewDupFunction(ctx, name)
	}
	r.tree.ReplaceOrInsert(registryItem{name: name, factory: factory})
	logutil2.Debug(ctx, "register function", zap.String("name", name))
	return nil
}

// Resolve builds the evaluator of name for args.
func (r *Registry) Resolve(ctx context.Context, name string, args []types.Type) (Evaluator, error) {
	r.RLock()
	item, ok := r.tree.Get(registryItem{name: normalizeName(name)})
	r.RUnlock()
	if !ok {
		v2.FunctionResolveNotFoundCounter.Inc()
		return nil, moerr.NewFunctionNotFound(ctx, name)
	}
	eval, err := item.factory(ctx, name, args)
	if err != nil {
		recordResolveError(err)
		logutil2.Warn(ctx, "resolve function failed",
			zap.String("name", name),
			zap.Error(err))
		return nil, err
	}
	v2.FunctionResolveOKCounter.Inc()
	return eval, nil
}

func recordResolveError(err error) {
	switch {
	case moerr.IsMoErrCode(err, moerr.ErrFunctionArity):
		v2.FunctionResolveArityCounter.Inc()
	case moerr.IsMoErrCode(err, moerr.ErrTypeMismatch):
		v2.FunctionResolveMismatchCounter.Inc()
	case moerr.IsMoErrCode(err, moerr.ErrNYI):
		v2.FunctionResolveUnsupportedCounter.Inc()
	}
}

// List returns the registered names in ascending order.
func (r *Registry) List() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, r.tree.Len())
	r.tree.Ascend(func(item registryItem) bool {
		names = append(names, item.name)
		return true
	})
	return names
}

// Eval resolves name for the types of parameters, makes result writable and
// evaluates it over selectList.
func (r *Registry) Eval(proc *process.Process, name string, parameters []*vector.Vector,
	result vector.FunctionResultWrapper, selectList *FunctionSelectList) (Evaluator, error) {
	args := make([]types.Type, len(parameters))
	for i, p := range parameters {
		args[i] = *p.GetType()
	}
	eval, err := r.Resolve(proc.Ctx, name, args)
	if err != nil {
		return nil, err
	}
	if err = proc.EnsureWritable(result, selectList.Rows(), parameters...); err != nil {
		return nil, err
	}
	return eval, eval.Eval(proc, parameters, result, selectList)
}
