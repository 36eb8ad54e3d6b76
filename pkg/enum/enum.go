package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumManager = map[reflect.Type]any{}
	mu          sync.RWMutex
)

type enum[T ~string] struct {
	toEnum map[string]T
	values []T
}

// New registers value as a member of its enum type and returns it, so it can be used in var blocks.
func New[T ~string](value T) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	e, ok := enumManager[t].(*enum[T])
	if !ok {
		e = &enum[T]{toEnum: make(map[string]T)}
		enumManager[t] = e
	}

	if _, ok := e.toEnum[string(value)]; !ok {
		e.toEnum[string(value)] = value
		e.values = append(e.values, value)
	}

	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var defaultT T
	mu.RLock()
	defer mu.RUnlock()

	e, ok := enumManager[reflect.TypeOf(defaultT)].(*enum[T])
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns the members of the enum in registration order.
func Values[T ~string]() []T {
	var defaultT T
	mu.RLock()
	defer mu.RUnlock()

	e, ok := enumManager[reflect.TypeOf(defaultT)].(*enum[T])
	if !ok {
		return nil
	}

	return append([]T(nil), e.values...)
}
