package tally

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/popcity/popcity/internal/game/veto"
)

const tallyFunction = "tally"

// LuaPolicy runs a script defining tally(approvals, vetoes), which returns
// "pending", "approved" or "rejected".
type LuaPolicy struct {
	name string

	mu    sync.Mutex
	state *lua.State
}

// LoadLuaFile loads a tally script from path.
func LoadLuaFile(path string) (*LuaPolicy, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tally script: %w", err)
	}
	return LoadLua(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), string(source))
}

// LoadLua compiles source and checks that it defines the tally function.
// Only the base, string, math and table libraries are opened.
func LoadLua(name, source string) (*LuaPolicy, error) {
	state := lua.NewState()
	for _, lib := range []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "math", Function: lua.MathOpen},
		{Name: "table", Function: lua.TableOpen},
	} {
		lua.Require(state, lib.Name, lib.Function, true)
		state.Pop(1)
	}

	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load tally script: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run tally script: %w", err)
	}
	state.Global(tallyFunction)
	defined := state.IsFunction(-1)
	state.Pop(1)
	if !defined {
		return nil, fmt.Errorf("tally script must define function %s(approvals, vetoes)", tallyFunction)
	}
	if strings.TrimSpace(name) == "" {
		name = "script"
	}
	return &LuaPolicy{name: name, state: state}, nil
}

func (p *LuaPolicy) Name() string { return "lua:" + p.name }

func (p *LuaPolicy) Decide(approvals, vetoes int) (veto.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	top := p.state.Top()
	defer p.state.SetTop(top)

	p.state.Global(tallyFunction)
	p.state.PushInteger(approvals)
	p.state.PushInteger(vetoes)
	if err := p.state.ProtectedCall(2, 1, 0); err != nil {
		return "", fmt.Errorf("call tally script: %w", err)
	}
	raw, ok := p.state.ToString(-1)
	if !ok {
		return "", fmt.Errorf("tally script must return a string")
	}
	return parseStatus(raw)
}
