package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/phanxgames/grove/internal/scenefile"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the grove CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Logging goes to stderr at info level,
// or debug with --verbose.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "grove",
		Short:        "grove inspects DAG scene graphs",
		Long:         `grove loads a TOML scene description and reports on its structure, trails and cached bounds.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("grove %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newTrailsCmd())
	root.AddCommand(newTopoCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newAuditCmd())
	root.AddCommand(newCullCmd())

	return root
}

// loadScene builds the scene file at path with a private metrics registry.
func loadScene(cmd *cobra.Command, path string) (*scenefile.Loaded, error) {
	logger := loggerFromContext(cmd.Context())
	logger.Debug("loading scene", "path", path)
	l, err := scenefile.Load(path, prometheus.NewRegistry(), logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("scene ready", "nodes", len(l.Order))
	return l, nil
}

func lookupNode(l *scenefile.Loaded, name string) error {
	if l.Node(name) == nil {
		return fmt.Errorf("no node named %q", name)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
