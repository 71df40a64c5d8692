package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/tools"
	"github.com/harrisonrobin/taskmate/pkg/web"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list web form",
	Long: `Serve a page with a form to add tasks and a table of all tasks,
plus a JSON API under /api/tasks.`,
	Args: cobra.NoArgs,
	RunE: withApp(runServe),
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the task tools to a chat agent over MCP (stdio)",
	Long: `Run an MCP server on stdin/stdout exposing get_all_tasks,
add_new_task and change_task_priority. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: withApp(runMCP),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runServe(cmd *cobra.Command, args []string, a *app) error {
	addr := a.cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	log := logging.Component("web")
	router := web.NewRouter(web.NewTaskController(a.service), log)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Task list available at http://%s\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func runMCP(cmd *cobra.Command, args []string, a *app) error {
	tools.Version = Version
	s := tools.NewServer(a.service)
	a.log.Info().Msg("serving MCP tools on stdio")
	return server.ServeStdio(s)
}
