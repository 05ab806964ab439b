package buildsys

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stepRecorder is a BuildSystem that records the steps it runs.
type stepRecorder struct {
	steps  []string
	failOn string
}

func (r *stepRecorder) step(name string) error {
	r.steps = append(r.steps, name)
	if name == r.failOn {
		return errors.New("exit status 1")
	}
	return nil
}

func (r *stepRecorder) Configure(ctx context.Context, args ...string) error {
	return r.step("configure")
}

func (r *stepRecorder) Build(ctx context.Context, args ...string) error {
	return r.step("build")
}

func (r *stepRecorder) Install(ctx context.Context, args ...string) error {
	return r.step("install")
}

func TestRun(t *testing.T) {
	tests := []struct {
		failOn    string
		wantSteps []string
		wantErr   string
	}{
		{"", []string{"configure", "build", "install"}, ""},
		{"configure", []string{"configure"}, "configure: exit status 1"},
		{"build", []string{"configure", "build"}, "build: exit status 1"},
		{"install", []string{"configure", "build", "install"}, "install: exit status 1"},
	}
	for _, tt := range tests {
		r := &stepRecorder{failOn: tt.failOn}
		err := Run(context.Background(), r)
		if diff := cmp.Diff(tt.wantSteps, r.steps); diff != "" {
			t.Errorf("failOn %q: steps mismatch (-want +got):\n%s", tt.failOn, diff)
		}
		gotErr := ""
		if err != nil {
			gotErr = err.Error()
		}
		if gotErr != tt.wantErr {
			t.Errorf("failOn %q: Run error = %q, want %q", tt.failOn, gotErr, tt.wantErr)
		}
	}
}
