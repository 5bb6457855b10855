package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingsKeepInstallationOrder(t *testing.T) {
	s := New("runtime", nil)
	s.Bind(Binding{Contract: "compiler", Implementation: "first"})
	s.Bind(Binding{Contract: "compiler", Implementation: "second"})
	s.Bind(Binding{Contract: "gc", Implementation: "other"})

	bindings := s.Bindings("compiler")
	require.Len(t, bindings, 2)
	assert.Equal(t, "first", bindings[0].Implementation)
	assert.Equal(t, "second", bindings[1].Implementation)
}

func TestBindingsDoNotConsultParent(t *testing.T) {
	parent := New("root", nil)
	parent.Bind(Binding{Contract: "compiler", Implementation: "rooted"})
	child := New("runtime", parent)

	assert.Empty(t, child.Bindings("compiler"))
	assert.Len(t, parent.Bindings("compiler"), 1)
}

func TestPrimordialSkipsApplicationScopes(t *testing.T) {
	root := New("root", nil)
	runtime := New("runtime", root)
	application := NewApplication("application", runtime)

	assert.Same(t, runtime, Primordial(application), "the narrowest non-application ancestor wins")
	assert.Same(t, runtime, Primordial(runtime))
	assert.Same(t, root, Primordial(root))
}

func TestPrimordialFallsBackToRoot(t *testing.T) {
	root := NewApplication("root", nil)
	application := NewApplication("application", root)

	assert.Same(t, root, Primordial(application))
}

func TestAllBindings(t *testing.T) {
	s := New("runtime", nil)
	s.Bind(Binding{Contract: "compiler", Implementation: "a"})
	s.Bind(Binding{Contract: "gc", Implementation: "b"})

	all := s.AllBindings()
	assert.Len(t, all, 2)
}
