package discovery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/internal/discovery"
	"github.com/smarr/graal-jvmci-9/internal/scope"
)

type runtimeProvider struct{ name string }
type rootProvider struct{}

func TestDiscoverInstantiatesBoundProviders(t *testing.T) {
	cat := catalog.New()
	cat.Register("runtime-impl", func(ctx context.Context, settings map[string]cty.Value) (any, error) {
		name := ""
		if v, ok := settings["name"]; ok {
			name = v.AsString()
		}
		return &runtimeProvider{name: name}, nil
	})

	runtime, ok := cat.RuntimeScope()
	require.True(t, ok)
	runtime.Bind(scope.Binding{
		Contract:       "compiler",
		Implementation: "runtime-impl",
		Settings:       map[string]cty.Value{"name": cty.StringVal("graal")},
	})

	d := discovery.NewCatalogDiscoverer(cat)
	providers, err := d.Discover(context.Background(), "compiler", runtime)
	require.NoError(t, err)
	require.Len(t, providers, 1)

	provider, ok := providers[0].(*runtimeProvider)
	require.True(t, ok)
	assert.Equal(t, "graal", provider.name)
}

func TestDiscoverSearchesScopeChainInnermostFirst(t *testing.T) {
	cat := catalog.New()
	cat.Register("runtime-impl", func(ctx context.Context, settings map[string]cty.Value) (any, error) {
		return &runtimeProvider{}, nil
	})
	cat.Register("root-impl", func(ctx context.Context, settings map[string]cty.Value) (any, error) {
		return &rootProvider{}, nil
	})

	runtime, ok := cat.RuntimeScope()
	require.True(t, ok)
	root := runtime.Parent()
	require.NotNil(t, root)

	root.Bind(scope.Binding{Contract: "compiler", Implementation: "root-impl"})
	runtime.Bind(scope.Binding{Contract: "compiler", Implementation: "runtime-impl"})

	d := discovery.NewCatalogDiscoverer(cat)
	providers, err := d.Discover(context.Background(), "compiler", runtime)
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.IsType(t, &runtimeProvider{}, providers[0])
	assert.IsType(t, &rootProvider{}, providers[1])
}

func TestDiscoverZeroProvidersIsNotAnError(t *testing.T) {
	cat := catalog.New()
	runtime, _ := cat.RuntimeScope()

	d := discovery.NewCatalogDiscoverer(cat)
	providers, err := d.Discover(context.Background(), "compiler", runtime)
	require.NoError(t, err, "an available subsystem with zero providers is a normal answer")
	assert.Empty(t, providers)
}

func TestDiscoverDisabledCatalog(t *testing.T) {
	cat := catalog.New()
	cat.Disable()
	runtime, _ := cat.RuntimeScope()

	d := discovery.NewCatalogDiscoverer(cat)
	_, err := d.Discover(context.Background(), "compiler", runtime)
	require.ErrorIs(t, err, discovery.ErrDisabled)
}

func TestDiscoverUnlinkedImplementationIsUnavailable(t *testing.T) {
	cat := catalog.New()
	runtime, _ := cat.RuntimeScope()
	runtime.Bind(scope.Binding{Contract: "compiler", Implementation: "never-linked"})

	d := discovery.NewCatalogDiscoverer(cat)
	_, err := d.Discover(context.Background(), "compiler", runtime)
	require.ErrorIs(t, err, discovery.ErrUnavailable)
	assert.Contains(t, err.Error(), "never-linked")
}

func TestDiscoverPropagatesConstructorFailure(t *testing.T) {
	boom := errors.New("backend initialization failed")
	cat := catalog.New()
	cat.Register("failing-impl", func(ctx context.Context, settings map[string]cty.Value) (any, error) {
		return nil, boom
	})
	runtime, _ := cat.RuntimeScope()
	runtime.Bind(scope.Binding{Contract: "compiler", Implementation: "failing-impl"})

	d := discovery.NewCatalogDiscoverer(cat)
	_, err := d.Discover(context.Background(), "compiler", runtime)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, discovery.ErrUnavailable)
}
