package buildsys

import (
	"context"
	"fmt"
)

// BuildSystem is the configure, build and install lifecycle shared by
// build helpers. Paths, environment and defines are set on the concrete
// helper before Run.
type BuildSystem interface {
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
	Install(ctx context.Context, args ...string) error
}

// Run drives bs through configure, build and install, stopping at the first
// failing step. The step's error is returned unchanged apart from naming the
// step.
func Run(ctx context.Context, bs BuildSystem) error {
	steps := []struct {
		name string
		fn   func(context.Context, ...string) error
	}{
		{"configure", bs.Configure},
		{"build", bs.Build},
		{"install", bs.Install},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
