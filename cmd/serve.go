package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/msalah0e/filemap/internal/input"
	"github.com/msalah0e/filemap/internal/server"
	"github.com/msalah0e/filemap/internal/session"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// stopGrace bounds how long `serve stop` waits for a clean shutdown.
const stopGrace = 5 * time.Second

func serveCmd() *cobra.Command {
	var (
		addr       string
		noWatch    bool
		background bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a live editing session for a renderer",
		Long: `Load the layout and serve it to a renderer.

  GET  /health                     liveness
  GET  /api/scene                  current scene snapshot
  POST /api/save, /api/load        persist or reload layout.json
  GET  /api/nodes/{index}/content  file content of a node
  GET  /ws                         websocket: pointer and key events in, frames out`,
		Run: func(cmd *cobra.Command, args []string) {
			if running, pid := server.IsRunning(); running {
				fmt.Printf("  Already serving (PID %d)\n", pid)
				return
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			if background {
				exe, _ := os.Executable()
				child := exec.Command(exe, "serve", "--addr", addr, "--layout", cfg.Layout.File)
				if noWatch {
					child.Args = append(child.Args, "--no-watch")
				}
				setDetached(child)
				if err := child.Start(); err != nil {
					fail("Failed to start server: %v", err)
				}
				ui.Good.Printf("  %s Serving on http://%s (PID %d)\n", ui.StatusIcon(true), addr, child.Process.Pid)
				return
			}

			g, store := openLayout()
			sess := session.New(g, session.Options{
				Store:   store,
				Pattern: cfg.Folder.Pattern,
				Input: input.Options{
					DragThreshold: cfg.Gesture.DragThreshold,
					EdgeTolerance: cfg.Canvas.EdgeTolerance,
				},
				Hooks: cfg.Hooks,
				Watch: cfg.Serve.Watch && !noWatch,
				Log:   logger,
			})
			srv := server.New(server.Config{
				Addr:           addr,
				AllowedOrigins: cfg.Serve.AllowedOrigins,
				Version:        version,
			}, sess, logger)

			ui.Banner(cmd.OutOrStdout(), "live session")
			fmt.Printf("  Layout:  %s (%d nodes, %d edges)\n", displayPath(store.Path), g.NodeCount(), g.EdgeCount())
			fmt.Printf("  HTTP:    %s\n", ui.Brand.Sprintf("http://%s", addr))
			fmt.Printf("  Socket:  %s\n", ui.Brand.Sprintf("ws://%s/ws", addr))
			fmt.Println()

			if err := server.WritePid(); err != nil {
				ui.Warn.Printf("  %s Could not write PID file: %v\n", ui.WarnIcon(), err)
			}
			defer server.RemovePid()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error { return sess.Run(ctx) })
			eg.Go(func() error { return srv.Start(ctx) })
			if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				server.RemovePid()
				fail("Server error: %v", err)
			}
			fmt.Println("  Stopped.")
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides [serve] addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch opened folders for new files")
	cmd.Flags().BoolVarP(&background, "bg", "b", false, "Run in background")

	cmd.AddCommand(serveStopCmd(), serveStatusCmd())
	return cmd
}

func serveStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a background server",
		Run: func(cmd *cobra.Command, args []string) {
			running, pid := server.IsRunning()
			if !running {
				fmt.Println("  Server is not running")
				return
			}

			proc, err := os.FindProcess(pid)
			if err != nil {
				fail("Failed to find process %d: %v", pid, err)
			}
			if err := stopProcess(proc); err != nil {
				fail("Failed to stop server: %v", err)
			}

			server.RemovePid()
			ui.Good.Printf("  %s Server stopped (PID %d)\n", ui.StatusIcon(true), pid)
		},
	}
}

func serveStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether a server is running",
		Run: func(cmd *cobra.Command, args []string) {
			if running, pid := server.IsRunning(); running {
				ui.Good.Printf("  %s Server running (PID %d)\n", ui.StatusIcon(true), pid)
				return
			}
			fmt.Println("  Server is not running")
			fmt.Println("  Start: filemap serve")
		},
	}
}
