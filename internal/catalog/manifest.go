package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/smarr/graal-jvmci-9/internal/ctxlog"
	"github.com/smarr/graal-jvmci-9/internal/scope"
)

// manifestRoot is the top-level structure of a manifest file: one or more
// 'provider' blocks.
type manifestRoot struct {
	Providers []*manifestProvider `hcl:"provider,block"`
}

// manifestProvider is a single 'provider' block for decoding purposes.
type manifestProvider struct {
	Contract       string    `hcl:"contract,label"`
	Implementation string    `hcl:"implementation,label"`
	Scope          string    `hcl:"scope,optional"`
	Settings       cty.Value `hcl:"settings,optional"`
}

// LoadManifests recursively loads all .hcl provider manifests under path and
// binds their declarations into the catalog's scopes. Declarations within
// one contract keep file and block order.
func (c *Catalog) LoadManifests(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog loading provider manifests...", "path", path)

	filePaths, err := findManifestFiles(path)
	if err != nil {
		logger.Error("Failed to walk manifest directory", "path", path, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	declared := 0

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
		}

		var root manifestRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return fmt.Errorf("failed to decode manifest file %s: %w", filePath, diags)
		}

		for _, p := range root.Providers {
			binding, err := p.binding()
			if err != nil {
				return fmt.Errorf("invalid provider block in %s: %w", filePath, err)
			}
			target, err := c.bindingScope(p.Scope)
			if err != nil {
				return fmt.Errorf("invalid provider block in %s: %w", filePath, err)
			}
			target.Bind(binding)
			declared++
			logger.Debug("Bound provider declaration.",
				"contract", p.Contract, "implementation", p.Implementation, "scope", target.Name())
		}
	}

	logger.Info("Catalog manifests loaded successfully.", "files", len(filePaths), "providers_declared", declared)
	return nil
}

// binding converts a decoded provider block into a scope binding.
func (p *manifestProvider) binding() (scope.Binding, error) {
	b := scope.Binding{
		Contract:       scope.Contract(p.Contract),
		Implementation: p.Implementation,
	}
	if p.Settings != cty.NilVal && !p.Settings.IsNull() {
		if !p.Settings.Type().IsObjectType() && !p.Settings.Type().IsMapType() {
			return scope.Binding{}, fmt.Errorf("provider %q/%q: 'settings' must be an object, got %s",
				p.Contract, p.Implementation, p.Settings.Type().FriendlyName())
		}
		b.Settings = p.Settings.AsValueMap()
	}
	return b, nil
}

// bindingScope resolves the optional 'scope' attribute of a provider block.
// Runtime declarations land on the root when no dedicated runtime scope
// exists in this deployment.
func (c *Catalog) bindingScope(name string) (*scope.Scope, error) {
	switch name {
	case "", "runtime":
		if c.runtime != nil {
			return c.runtime, nil
		}
		return c.root, nil
	case "application":
		return c.application, nil
	default:
		return nil, fmt.Errorf("unknown scope %q: must be 'runtime' or 'application'", name)
	}
}

// Validate performs a strict parity check between manifest declarations and
// registered Go constructors: every declared implementation must have a
// constructor compiled in.
func (c *Catalog) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, sc := range []*scope.Scope{c.application, c.runtime, c.root} {
		if sc == nil {
			continue
		}
		for _, b := range sc.AllBindings() {
			if _, ok := c.constructors[b.Implementation]; !ok {
				errs = append(errs, fmt.Sprintf(
					"contract '%s': manifest declares implementation '%s' which has no registered Go constructor",
					b.Contract, b.Implementation))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Catalog validation passed.", "constructors", len(c.constructors))
	return nil
}

// findManifestFiles recursively collects all .hcl files under rootPath.
func findManifestFiles(rootPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
