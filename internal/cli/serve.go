package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wtlab/wtproj/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve the project state over MCP (stdio)",
	Long: `Run an MCP server on stdin/stdout exposing the project state as tools.
When a path is given the project is loaded before serving.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := loadProject(args[0]); err != nil {
				return err
			}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		srv := server.New(state, buildVersion)
		logger.Info("MCP server starting", zap.String("transport", "stdio"), zap.String("project", state.ProjectFilePath()))
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return fmt.Errorf("serving MCP: %w", err)
		}
		return nil
	},
}
