package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mkbook/common"
	"mkbook/convert"
	"mkbook/misc"
	"mkbook/state"
)

const shutdownTimeout = 5 * time.Second

// Run is the "preview" command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	listen := env.Cfg.Preview.Listen
	if l := cmd.String("listen"); l != "" {
		listen = l
	}

	if err := convert.PrepareEnv(env); err != nil {
		return err
	}
	// every rebuild replaces previous result
	env.Overwrite, env.Format = true, common.OutputFmtHtml

	in, err := convert.Locate(ctx, src, &env.Cfg.Document)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-preview-*")
	if err != nil {
		return fmt.Errorf("unable to create build directory: %w", err)
	}
	if env.Rpt == nil {
		defer os.RemoveAll(dir)
	}

	s := New(in, dir, log)
	if err := s.Rebuild(ctx); err != nil {
		log.Warn("Initial build failed, waiting for changes", zap.Error(err))
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", listen, err)
	}
	log.Info("Preview started", zap.String("url", "http://"+ln.Addr().String()+"/"), zap.String("source", in.Location))

	return s.Serve(ctx, ln, time.Duration(env.Cfg.Preview.Debounce)*time.Millisecond)
}

// Serve runs HTTP server on listener and the file watcher until context is
// canceled or one of them fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener, debounce time.Duration) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.Watch(ctx, debounce)
		close(watchErr)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutdown signal received")
	case e := <-serveErr:
		err = multierr.Append(err, e)
	case e := <-watchErr:
		err = multierr.Append(err, e)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if e := srv.Shutdown(shutdownCtx); e != nil {
		err = multierr.Append(err, fmt.Errorf("unable to stop server: %w", e))
	}
	// watcher exits on canceled context
	for e := range watchErr {
		err = multierr.Append(err, e)
	}
	return err
}
