package internal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/tvmbuild/internal/build"
	"github.com/goplus/tvmbuild/internal/options"
	"github.com/goplus/tvmbuild/internal/revision"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		arg       string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"USE_CUDA=on", "USE_CUDA", "on", false},
		{"USE_LLVM=/usr/bin/llvm-config", "USE_LLVM", "/usr/bin/llvm-config", false},
		{"USE_OPENMP=", "USE_OPENMP", "", false},
		{"A=b=c", "A", "b=c", false},
		{" USE_SORT =on", "USE_SORT", "on", false},
		{"USE_CUDA", "", "", true},
		{"=on", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			key, value, err := parseSet(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSet(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if key != tt.wantKey || value != tt.wantValue {
				t.Errorf("parseSet(%q) = %q, %q; want %q, %q", tt.arg, key, value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func newOptionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	registerOptionFlags(cmd)
	return cmd
}

func TestRegisterOptionFlags(t *testing.T) {
	cmd := newOptionCmd()
	for _, opt := range options.All() {
		f := cmd.Flags().Lookup(opt.FlagName())
		if f == nil {
			t.Errorf("no flag for %s", opt.Key)
			continue
		}
		wantType := "string"
		if opt.Kind == options.Bool {
			wantType = "bool"
		}
		if f.Value.Type() != wantType {
			t.Errorf("--%s has type %s, want %s", f.Name, f.Value.Type(), wantType)
		}
	}
}

func TestCollectOptions(t *testing.T) {
	file := filepath.Join(t.TempDir(), "options.yaml")
	content := "USE_CUDA: on\nUSE_SORT: on\nUSE_OPENMP: intel\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newOptionCmd()
	if err := cmd.ParseFlags([]string{"--use-sort=false", "--use-llvm", "/opt/llvm/bin/llvm-config"}); err != nil {
		t.Fatal(err)
	}

	opts, err := collectOptions(cmd, file, []string{"USE_OPENMP=gnu", "use_rpc=yes"})
	if err != nil {
		t.Fatalf("collectOptions failed: %v", err)
	}
	want := []options.Define{
		{Key: "USE_CUDA", Value: "ON"},
		{Key: "USE_RPC", Value: "ON"},
		{Key: "USE_LLVM", Value: "/opt/llvm/bin/llvm-config"},
		{Key: "USE_OPENMP", Value: "gnu"},
		{Key: "USE_SORT", Value: "OFF"},
	}
	if diff := cmp.Diff(want, opts.Defines()); diff != "" {
		t.Errorf("defines mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectOptionsNoneSet(t *testing.T) {
	opts, err := collectOptions(newOptionCmd(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := opts.Defines(); got != nil {
		t.Errorf("Defines() = %v, want nil", got)
	}
}

func TestCollectOptionsErrors(t *testing.T) {
	var invalid *options.InvalidValueError
	cmd := newOptionCmd()
	if err := cmd.ParseFlags([]string{"--use-cuda", "enabled"}); err != nil {
		t.Fatal(err)
	}
	if _, err := collectOptions(cmd, "", nil); !errors.As(err, &invalid) {
		t.Errorf("collectOptions(--use-cuda enabled) error = %v, want InvalidValueError", err)
	}

	var unknown *options.UnknownOptionError
	if _, err := collectOptions(newOptionCmd(), "", []string{"USE_NOTHING=on"}); !errors.As(err, &unknown) {
		t.Errorf("collectOptions(--set USE_NOTHING) error = %v, want UnknownOptionError", err)
	}

	if _, err := collectOptions(newOptionCmd(), filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("collectOptions with a missing options file should fail")
	}
}

func TestWriteVersionInfo(t *testing.T) {
	info := build.VersionInfo{PythonPath: "/root/.tvm_build/v0.8.0/source/python/tvm"}

	var buf bytes.Buffer
	if err := writeVersionInfo(&buf, info, "yaml"); err != nil {
		t.Fatal(err)
	}
	if want := "tvm_python_path: /root/.tvm_build/v0.8.0/source/python/tvm\n"; buf.String() != want {
		t.Errorf("yaml output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := writeVersionInfo(&buf, info, "json"); err != nil {
		t.Fatal(err)
	}
	if want := "{\n  \"tvm_python_path\": \"/root/.tvm_build/v0.8.0/source/python/tvm\"\n}\n"; buf.String() != want {
		t.Errorf("json output = %q, want %q", buf.String(), want)
	}

	if err := writeVersionInfo(&buf, info, "toml"); err == nil {
		t.Error("writeVersionInfo should reject unknown formats")
	}
}

func TestPrintInstalled(t *testing.T) {
	var buf bytes.Buffer
	printInstalled(&buf, []revision.Installed{
		{Ref: "main", Source: true, Build: true},
		{Ref: "v0.8.0", Source: true},
		{Ref: "orphan", Build: true},
	})
	want := "main\tbuilt\nv0.8.0\tsource\norphan\tbuild only\n"
	if buf.String() != want {
		t.Errorf("printInstalled = %q, want %q", buf.String(), want)
	}
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := printCatalog(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(options.All())+1 {
		t.Fatalf("printCatalog printed %d lines, want %d", len(lines), len(options.All())+1)
	}
	if !strings.HasPrefix(lines[1], "USE_CUDA") {
		t.Errorf("first option line = %q, want USE_CUDA first", lines[1])
	}
}
