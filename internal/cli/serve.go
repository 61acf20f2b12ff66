package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/usercheck/internal/config"
	"github.com/wesleyorama2/usercheck/internal/mockapi"
	"github.com/wesleyorama2/usercheck/internal/output"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local mock of the users API",
		Long: `serve runs an in-process imitation of the ReqRes users API under /api,
seeded with twelve users and reproducing its quirks, so the cases can run
offline:

  usercheck serve --addr 127.0.0.1:8080 &
  usercheck run --base-url http://127.0.0.1:8080/api`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	flags := serveCmd.Flags()
	flags.String("addr", "127.0.0.1:8080", "listen address")
	flags.Bool("require-api-key", false, "answer 401 to requests without the API key")
	flags.String("api-key", config.DefaultAPIKey, "API key expected with --require-api-key")
	flags.String("api-key-header", config.DefaultAPIKeyHeader, "header carrying the API key")
	flags.Duration("delay", 0, "delay added to every API response")
	flags.Int("per-page", mockapi.DefaultPerPage, "default page size")
	flags.BoolP("quiet", "q", false, "disable the access log")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	requireKey, _ := cmd.Flags().GetBool("require-api-key")
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKeyHeader, _ := cmd.Flags().GetString("api-key-header")
	delay, _ := cmd.Flags().GetDuration("delay")
	perPage, _ := cmd.Flags().GetInt("per-page")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")

	out := cmd.OutOrStdout()

	options := []mockapi.Option{
		mockapi.WithDelay(delay),
		mockapi.WithPerPage(perPage),
	}
	if requireKey {
		options = append(options, mockapi.WithAPIKey(apiKeyHeader, apiKey))
	}
	if !quiet {
		options = append(options, mockapi.WithAccessLog(out, output.ShouldDisableColor(out, noColor)))
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &nethttp.Server{
		Handler:           mockapi.New(options...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(out, "Mock users API listening on http://%s%s\n", listener.Addr(), mockapi.BasePath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-cmd.Context().Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	}
}
