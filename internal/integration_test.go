package internal_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/olehluchkiv/oocbind/internal/binding"
	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/registry"
	"github.com/olehluchkiv/oocbind/internal/resolver"
)

// Each archive under testdata/ holds an interface file (interface.yaml or
// interface.toml), the dumps it names, and either want.ooc or want.err.

func testdataDir() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// We're in internal/, go up one level
	return filepath.Join(filepath.Dir(wd), "testdata")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// extract writes every file of the archive except the expectations into a
// fresh directory and returns the interface path and the expectations.
func extract(t *testing.T, ar *txtar.Archive) (iface string, want map[string]string) {
	t.Helper()
	dir := t.TempDir()
	want = make(map[string]string)
	for _, f := range ar.Files {
		if strings.HasPrefix(f.Name, "want.") {
			want[f.Name] = string(f.Data)
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
		if strings.HasPrefix(f.Name, "interface.") {
			iface = path
		}
	}
	require.NotEmpty(t, iface, "archive has no interface file")
	return iface, want
}

func generate(iface string, logger *slog.Logger) (string, error) {
	cfg, err := config.Load(iface)
	if err != nil {
		return "", err
	}
	files, err := resolver.Resolve(cfg.Dir, cfg.Files, logger)
	if err != nil {
		return "", err
	}
	reg, err := registry.Load(files, logger)
	if err != nil {
		return "", err
	}
	return binding.Generate(reg, cfg, logger)
}

func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join(testdataDir(), "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			iface, want := extract(t, ar)

			got, err := generate(iface, testLogger())
			if msg, ok := want["want.err"]; ok {
				require.Error(t, err)
				assert.Contains(t, err.Error(), strings.TrimSpace(msg))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want["want.ooc"], got)
		})
	}
}

func TestGoldenIsStable(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join(testdataDir(), "person.txtar"))
	require.NoError(t, err)
	iface, _ := extract(t, ar)

	first, err := generate(iface, testLogger())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := generate(iface, testLogger())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestYAMLAndTOMLAgree(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join(testdataDir(), "buffer.txtar"))
	require.NoError(t, err)
	iface, want := extract(t, ar)

	yamlDoc := `files: [api.json]
use: [buf_sdk]
opaque: all
ignore_files: ["^src/"]
names: {"STRUCT(slice)": Slice}
primitives: {size_t: USize}
objects:
  - name: Buf
    tag: Buf
    static_methods: ["buf_(new)"]
    methods: [{by_arg_type: Buf, index: 0, name: "buf_(.*)"}]
  - name: Arena
    from: "void*"
    extends: Object
    static_methods: [{by_name: "arena_(.*)", keep_name: true}]
`
	yamlPath := filepath.Join(filepath.Dir(iface), "interface.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDoc), 0o644))

	got, err := generate(yamlPath, testLogger())
	require.NoError(t, err)
	assert.Equal(t, want["want.ooc"], got)
}
