package registry_test

import (
	"testing"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/registry"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	registry.Register("zz_stub", func() registry.Game { return &stubGame{id: "zz_stub"} })

	if !registry.Exists("zz_stub") {
		t.Fatal("registered game not found")
	}
	g, err := registry.Create("zz_stub")
	if err != nil || g.ID() != "zz_stub" {
		t.Fatalf("Create = %v, %v", g, err)
	}

	var found bool
	for _, info := range registry.List() {
		if info.ID == "zz_stub" {
			found = info.Title == "Stub zz_stub"
		}
	}
	if !found {
		t.Error("List is missing the stub or its title")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := registry.Create("does_not_exist"); err == nil {
		t.Error("expected error")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	registry.Register("zz_dup", func() registry.Game { return &stubGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	registry.Register("zz_dup", func() registry.Game { return &stubGame{id: "zz_dup"} })
}
