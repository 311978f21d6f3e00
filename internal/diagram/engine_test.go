package diagram

import (
	"context"
	"errors"
	"testing"
)

func TestNewRodEngine_Defaults(t *testing.T) {
	t.Parallel()

	e := NewRodEngine(RodEngineConfig{})
	if e.cfg.ScriptURL != DefaultScriptURL {
		t.Errorf("ScriptURL = %q, want %q", e.cfg.ScriptURL, DefaultScriptURL)
	}
	if e.cfg.Timeout != DefaultEngineTimeout {
		t.Errorf("Timeout = %v, want %v", e.cfg.Timeout, DefaultEngineTimeout)
	}
	if e.cfg.InitConfig["startOnLoad"] != false {
		t.Errorf("InitConfig should disable startOnLoad, got %v", e.cfg.InitConfig["startOnLoad"])
	}
}

func TestRodEngine_RenderBeforeInit(t *testing.T) {
	t.Parallel()

	e := NewRodEngine(RodEngineConfig{})
	if _, err := e.Render(context.Background(), "id", "graph TD"); !errors.Is(err, ErrRender) {
		t.Errorf("Render() before Init error = %v, want ErrRender", err)
	}
}

func TestRodEngine_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	e := NewRodEngine(RodEngineConfig{})
	for i := 0; i < 2; i++ {
		if err := e.Close(); err != nil {
			t.Fatalf("Close() #%d error: %v", i+1, err)
		}
	}
	if _, err := e.Render(context.Background(), "id", "graph TD"); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Render() after Close error = %v, want ErrEngineClosed", err)
	}
	if err := e.Init(context.Background()); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Init() after Close error = %v, want ErrEngineClosed", err)
	}
}

func TestRodEngine_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewRodEngine(RodEngineConfig{})
	if err := e.Init(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Init() error = %v, want context.Canceled", err)
	}
}
