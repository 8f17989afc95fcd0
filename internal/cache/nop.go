package cache

import (
	"context"
	"time"
)

// Nop используется, когда Redis не настроен: ничего не хранит.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, ...string) error           { return nil }
func (Nop) Close() error                                          { return nil }
