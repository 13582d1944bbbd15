package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/verapi/internal/config"
	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes every top-level attribute and block a file may contain.
type fileRoot struct {
	Product    *string        `hcl:"product,optional"`
	SDKVersion *string        `hcl:"sdk_version,optional"`
	Namespace  *string        `hcl:"namespace,optional"`
	Versions   *[]string      `hcl:"versions,optional"`
	APIs       *[]string      `hcl:"apis,optional"`
	Modules    []*moduleBlock `hcl:"module,block"`
}

// Load parses every .hcl file under paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	m := &merger{model: &config.Model{}, origin: make(map[string]string)}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := m.merge(file, &root); err != nil {
			return nil, err
		}
		for _, block := range root.Modules {
			mod, err := translateModule(ctx, file, block)
			if err != nil {
				return nil, err
			}
			m.model.Modules = append(m.model.Modules, mod)
		}
		m.model.Files = append(m.model.Files, file)
	}

	if err := m.model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.",
		"product", m.model.Product,
		"versions", len(m.model.Versions),
		"apis", len(m.model.APIs),
		"modules", len(m.model.Modules),
	)
	return m.model, nil
}

// merger folds top-level settings from several files into one model. Each
// setting may be defined by one file only.
type merger struct {
	model  *config.Model
	origin map[string]string
}

func (m *merger) claim(name, file string) error {
	if prev, ok := m.origin[name]; ok {
		return fmt.Errorf("%q is set in both %s and %s", name, prev, file)
	}
	m.origin[name] = file
	return nil
}

func (m *merger) merge(file string, root *fileRoot) error {
	strs := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"product", root.Product, &m.model.Product},
		{"sdk_version", root.SDKVersion, &m.model.SDKVersion},
		{"namespace", root.Namespace, &m.model.Namespace},
	}
	for _, s := range strs {
		if s.src == nil {
			continue
		}
		if err := m.claim(s.name, file); err != nil {
			return err
		}
		*s.dst = *s.src
	}

	lists := []struct {
		name string
		src  *[]string
		dst  *[]string
	}{
		{"versions", root.Versions, &m.model.Versions},
		{"apis", root.APIs, &m.model.APIs},
	}
	for _, l := range lists {
		if l.src == nil {
			continue
		}
		if err := m.claim(l.name, file); err != nil {
			return err
		}
		*l.dst = append([]string(nil), *l.src...)
	}
	return nil
}
