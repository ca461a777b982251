package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "sre-dashboard"

type layerRule struct {
	sourcePrefix string
	forbidden    []string
	hint         string
}

func pkgs(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, modulePath+"/"+n)
	}
	return out
}

var architectureRules = []layerRule{
	{
		sourcePrefix: modulePath + "/internal/domain",
		forbidden: pkgs("internal/api", "internal/app", "internal/config", "internal/middleware",
			"internal/service", "internal/testutil", "internal/ui", "internal/warehouse", "cmd", "pkg"),
		hint: "domain may only import domain",
	},
	{
		sourcePrefix: modulePath + "/internal/warehouse",
		forbidden: pkgs("internal/api", "internal/app", "internal/config", "internal/middleware",
			"internal/service", "internal/ui", "cmd", "pkg"),
		hint: "warehouse depends on domain only",
	},
	{
		sourcePrefix: modulePath + "/internal/service",
		forbidden: pkgs("internal/api", "internal/app", "internal/config", "internal/middleware",
			"internal/ui", "internal/warehouse", "cmd", "pkg"),
		hint: "services reach the warehouse through domain.QueryExecutor",
	},
	{
		sourcePrefix: modulePath + "/internal/api",
		forbidden:    pkgs("internal/app", "internal/config", "internal/service", "internal/ui", "cmd", "pkg"),
		hint:         "api depends on domain and warehouse error types; services are injected as interfaces",
	},
	{
		sourcePrefix: modulePath + "/internal/ui",
		forbidden:    pkgs("internal/api", "internal/app", "internal/config", "internal/middleware", "cmd", "pkg"),
		hint:         "ui depends on domain, warehouse and service packages",
	},
	{
		sourcePrefix: modulePath + "/internal/middleware",
		forbidden: pkgs("internal/api", "internal/app", "internal/config", "internal/service",
			"internal/ui", "internal/warehouse"),
		hint: "middleware depends on domain only",
	},
	{
		sourcePrefix: modulePath + "/internal/config",
		forbidden:    pkgs("internal/api", "internal/app", "internal/middleware", "internal/service", "internal/ui"),
		hint:         "config depends on domain and warehouse settings",
	},
	{
		sourcePrefix: modulePath + "/pkg/cli",
		forbidden: pkgs("internal/api", "internal/app", "internal/config", "internal/middleware",
			"internal/service", "internal/ui", "internal/warehouse"),
		hint: "the CLI talks HTTP and shares only domain types",
	},
}

func collectGoFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func repoRootDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func findRule(sourcePkg string) (layerRule, bool) {
	for _, rule := range architectureRules {
		if hasPathPrefix(sourcePkg, rule.sourcePrefix) {
			return rule, true
		}
	}
	return layerRule{}, false
}

func matchingForbiddenPrefix(importPath string, forbidden []string) string {
	for _, prefix := range forbidden {
		if hasPathPrefix(importPath, prefix) {
			return prefix
		}
	}
	return ""
}

func hasPathPrefix(value string, prefix string) bool {
	return value == prefix || strings.HasPrefix(value, prefix+"/")
}

func packageImportPath(file string) string {
	return modulePath + "/" + filepath.ToSlash(filepath.Dir(relToRepoRoot(file)))
}

func isTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), "_test.go")
}

func parseImports(t *testing.T, file string) []string {
	t.Helper()

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
	require.NoErrorf(t, err, "parse imports for %s", file)

	imports := make([]string, 0, len(parsed.Imports))
	for _, imp := range parsed.Imports {
		imports = append(imports, strings.Trim(imp.Path.Value, "\""))
	}
	return imports
}

func relToRepoRoot(path string) string {
	rel, err := filepath.Rel(repoRootDir(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
