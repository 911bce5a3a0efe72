package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapodbc/internal/config"
	"github.com/leapstack-labs/leapodbc/pkg/adapter"
	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc/sqlbridge"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	return &CommandContext{
		Cfg:    config.FromContext(ctx),
		Logger: config.GetLogger(ctx),
	}
}

// Sources loads the configured sources file. A missing file yields an empty
// registry.
func (c *CommandContext) Sources() (*sqlbridge.Sources, error) {
	if c.Cfg.SourcesFile == "" {
		return sqlbridge.NewSources(nil), nil
	}
	if _, err := os.Stat(c.Cfg.SourcesFile); errors.Is(err, fs.ErrNotExist) {
		c.Logger.Debug("no sources file", slog.String("path", c.Cfg.SourcesFile))
		return sqlbridge.NewSources(nil), nil
	}
	return sqlbridge.LoadSources(c.Cfg.SourcesFile)
}

// Connect opens an adapter for the configured connection.
// The caller must Close it.
func (c *CommandContext) Connect(ctx context.Context) (*adapter.Adapter, error) {
	sources, err := c.Sources()
	if err != nil {
		return nil, err
	}
	coreCfg, err := c.Cfg.Connection.CoreConfig()
	if err != nil {
		return nil, err
	}
	a, err := adapter.Connect(ctx, sqlbridge.New(sources, c.Logger), coreCfg, c.Logger)
	if errors.Is(err, core.ErrConfiguration) {
		return nil, fmt.Errorf("%w\nHint: Set connection.source or connection.attributes in %s, or use --source / --attributes", err, config.ConfigFileName)
	}
	return a, err
}

// SourceNames returns the names in the configured sources file.
func SourceNames(cfg *config.Config) []string {
	c := &CommandContext{Cfg: cfg, Logger: slog.New(slog.DiscardHandler)}
	sources, err := c.Sources()
	if err != nil {
		return nil
	}
	return sources.Names()
}
