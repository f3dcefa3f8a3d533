package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type testComponent struct {
	name      string
	startErr  error
	stopErr   error
	events    *[]string
	startCall int
	stopCall  int
}

func (c *testComponent) Start(context.Context) error {
	c.startCall++
	if c.events != nil {
		*c.events = append(*c.events, "start:"+c.name)
	}
	return c.startErr
}

func (c *testComponent) Stop(context.Context) error {
	c.stopCall++
	if c.events != nil {
		*c.events = append(*c.events, "stop:"+c.name)
	}
	return c.stopErr
}

func register(r *Runtime, components ...*testComponent) *Runtime {
	for _, c := range components {
		r.Register(c.name, c)
	}
	return r
}

func TestRuntimeStartStopOrder(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 6)
	runtime := register(NewRuntime(),
		&testComponent{name: "metrics", events: &events},
		&testComponent{name: "queue", events: &events},
		&testComponent{name: "gateway", events: &events},
	)
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start runtime: %v", err)
	}
	if err := runtime.Stop(context.Background()); err != nil {
		t.Fatalf("stop runtime: %v", err)
	}

	expected := []string{
		"start:metrics",
		"start:queue",
		"start:gateway",
		"stop:gateway",
		"stop:queue",
		"stop:metrics",
	}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("unexpected order: got %v want %v", events, expected)
	}
}

func TestRuntimeStartFailureStopsStartedComponents(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 4)
	startErr := errors.New("boom")
	c1 := &testComponent{name: "metrics", events: &events}
	c2 := &testComponent{name: "gateway", events: &events, startErr: startErr}
	c3 := &testComponent{name: "queue", events: &events}

	err := register(NewRuntime(), c1, c2, c3).Start(context.Background())
	if !errors.Is(err, startErr) {
		t.Fatalf("unexpected start error: %v", err)
	}
	if !strings.Contains(err.Error(), "gateway") {
		t.Fatalf("start error must name the component: %v", err)
	}

	if c1.stopCall != 1 {
		t.Fatalf("expected started component to be stopped once, got %d", c1.stopCall)
	}
	if c2.stopCall != 0 || c3.stopCall != 0 {
		t.Fatalf("unexpected stop calls: c2=%d c3=%d", c2.stopCall, c3.stopCall)
	}

	expected := []string{"start:metrics", "start:gateway", "stop:metrics"}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestRuntimeStopJoinsErrors(t *testing.T) {
	t.Parallel()

	errA, errB := errors.New("a"), errors.New("b")
	c1 := &testComponent{name: "one", stopErr: errA}
	c2 := &testComponent{name: "two", stopErr: errB}
	c3 := &testComponent{name: "three"}

	runtime := register(NewRuntime(), c1, c2, c3)
	runtime.Register("nil", nil)
	err := runtime.Stop(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
	if c1.stopCall != 1 || c2.stopCall != 1 || c3.stopCall != 1 {
		t.Fatalf("every component must be stopped once")
	}
}
