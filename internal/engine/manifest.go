package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/fsutil"
)

// manifestFile decodes all top-level blocks of an engine manifest.
type manifestFile struct {
	Engines []*manifestEngine `hcl:"engine,block"`
	Remain  hcl.Body          `hcl:",remain"`
}

type manifestEngine struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Version     string            `hcl:"version,optional"`
	Extensions  []string          `hcl:"extensions"`
	Command     []string          `hcl:"command"`
	Env         map[string]string `hcl:"env,optional"`
}

// Manifest is one engine declared in an HCL manifest.
type Manifest struct {
	Info Info
	Env  map[string]string
	// Source is the file the engine was declared in.
	Source string
}

// Registration builds a registry entry creating a fresh ProcessEngine per
// invocation. Interpreter output goes to out.
func (m Manifest) Registration(out io.Writer) Registration {
	return Registration{
		Info: m.Info,
		New: func() Engine {
			return &ProcessEngine{
				Language:   m.Info.Name,
				Extensions: m.Info.Extensions,
				Command:    m.Info.Command,
				Env:        m.Env,
				Output:     out,
			}
		},
	}
}

// LoadManifests reads engine declarations from a manifest file or from
// every .hcl file under a directory. A path that does not exist yields no
// manifests.
func LoadManifests(ctx context.Context, path string) ([]Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := resolveManifestPath(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered engine manifests.", "count", len(files))

	parser := hclparse.NewParser()
	var out []Manifest
	for _, file := range files {
		decoded, err := decodeManifestFile(parser, file)
		if err != nil {
			return nil, err
		}
		for _, e := range decoded.Engines {
			if len(e.Command) == 0 || e.Command[0] == "" {
				return nil, fmt.Errorf("engine '%s' in %s has an empty command", e.Name, file)
			}
			if len(e.Extensions) == 0 {
				return nil, fmt.Errorf("engine '%s' in %s declares no extensions", e.Name, file)
			}
			out = append(out, Manifest{
				Info: Info{
					Name:        e.Name,
					Description: e.Description,
					Version:     e.Version,
					Command:     e.Command,
					Extensions:  e.Extensions,
				},
				Env:    e.Env,
				Source: file,
			})
		}
	}
	logger.Debug("Engine manifests loaded.", "engines", len(out))
	return out, nil
}

func decodeManifestFile(parser *hclparse.Parser, path string) (*manifestFile, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var root manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return &root, nil
}

// resolveManifestPath returns the manifest files named by path.
func resolveManifestPath(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logger.Debug("Engine manifest path does not exist.", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if info.IsDir() {
		return fsutil.FindFilesByExtension(path, ".hcl")
	}
	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("specified file is not an .hcl file: %s", path)
	}
	return []string{path}, nil
}
