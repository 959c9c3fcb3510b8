package check

import (
	"context"
	"sync"
	"testing"
	"time"
)

func okCheck(ctx context.Context) (Outcome, error) {
	return Score(100), nil
}

func TestRegistry_Register_Defaults(t *testing.T) {
	reg := NewRegistry()

	def := reg.Register("test", okCheck, Options{})

	if def.Weight != 1 {
		t.Errorf("Weight = %v, want 1", def.Weight)
	}
	if def.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", def.Timeout)
	}
	if !def.Enabled {
		t.Error("Enabled should default to true")
	}
	if def.Critical {
		t.Error("Critical should default to false")
	}
}

func TestRegistry_Register_Overwrite(t *testing.T) {
	reg := NewRegistry()

	reg.Register("test", okCheck, Options{Weight: 1})
	reg.Register("test", okCheck, Options{Weight: 4, Timeout: time.Second})

	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (overwrite, not duplicate)", reg.Len())
	}

	def, ok := reg.Get("test")
	if !ok {
		t.Fatal("Get returned false")
	}
	if def.Weight != 4 {
		t.Errorf("Weight = %v, want 4 (new definition observed)", def.Weight)
	}
	if def.Timeout != time.Second {
		t.Errorf("Timeout = %v, want 1s", def.Timeout)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test", okCheck, Options{})

	if !reg.Unregister("test") {
		t.Error("Unregister existing = false, want true")
	}
	if reg.Unregister("test") {
		t.Error("Unregister missing = true, want false")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestRegistry_SetEnabled(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test", okCheck, Options{})

	if !reg.SetEnabled("test", false) {
		t.Error("SetEnabled existing = false, want true")
	}
	def, _ := reg.Get("test")
	if def.Enabled {
		t.Error("check should be disabled")
	}

	if reg.SetEnabled("missing", true) {
		t.Error("SetEnabled missing = true, want false")
	}
}

func TestRegistry_List_Order(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", okCheck, Options{})
	reg.Register("b", okCheck, Options{})
	reg.Register("c", okCheck, Options{})
	reg.Register("b", okCheck, Options{Weight: 2}) // overwrite keeps position

	defs := reg.List()
	if len(defs) != 3 {
		t.Fatalf("len = %d, want 3", len(defs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if defs[i].Name != want {
			t.Errorf("defs[%d].Name = %q, want %q", i, defs[i].Name, want)
		}
	}
	if defs[1].Weight != 2 {
		t.Errorf("overwritten weight = %v, want 2", defs[1].Weight)
	}
}

func TestRegistry_List_IsSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", okCheck, Options{})

	defs := reg.List()
	reg.Unregister("a")

	if len(defs) != 1 {
		t.Errorf("snapshot len = %d, want 1 (unaffected by later mutation)", len(defs))
	}
}

func TestRegistry_ConcurrentMutation(t *testing.T) {
	reg := NewRegistry()
	reg.Register("base", okCheck, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch j % 3 {
				case 0:
					reg.Register("base", okCheck, Options{Weight: float64(i + 1)})
				case 1:
					reg.List()
				case 2:
					reg.SetEnabled("base", j%2 == 0)
				}
			}
		}(i)
	}
	wg.Wait()

	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}
