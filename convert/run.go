package convert

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mkbook/common"
	"mkbook/content"
	"mkbook/convert/html"
	"mkbook/state"
)

//go:embed default.css
var defaultStylesheet []byte

// DefaultStylesheet returns embedded stylesheet used when configuration
// does not name one.
func DefaultStylesheet() []byte {
	return defaultStylesheet
}

// Run is the "build" command: it locates manuscript and writes the book.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to html", zap.Error(err))
		format = common.OutputFmtHtml
	}

	if err := PrepareEnv(env); err != nil {
		return err
	}
	env.Overwrite, env.Format = cmd.Bool("overwrite"), format

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	in, err := Locate(ctx, src, &env.Cfg.Document)
	if err != nil {
		return err
	}
	_, err = Build(ctx, in, dst, format, log)
	return err
}

// PrepareEnv loads stylesheet into program environment.
func PrepareEnv(env *state.LocalEnv) error {
	env.DefaultStyle = defaultStylesheet
	if path := env.Cfg.Document.Render.StylesheetPath; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read style css from %q: %w", path, err)
		}
		env.DefaultStyle = data
	}
	return nil
}

// Build processes single located manuscript and writes the result in the
// requested format to "dst" directory. It returns name of the written file.
func Build(ctx context.Context, in *Input, dst string, format common.OutputFmt, log *zap.Logger) (outputName string, rerr error) {
	env := state.EnvFromContext(ctx)

	var bookID string

	log.Info("Conversion starting", zap.String("from", in.Location))
	defer func(start time.Time) {
		// NOTE: image processing libraries may panic on broken files, in
		// preview mode we do not want to stop the server.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("book_id", bookID))
		}
	}(time.Now())

	r, err := in.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open manuscript (%s): %w", in.Location, err)
	}
	defer r.Close()

	c, err := content.Prepare(ctx, r, in.Name, in.Images, log)
	if err != nil {
		return "", fmt.Errorf("unable to prepare book (%s): %w", in.Location, err)
	}
	bookID = c.BookID.String()

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(c, in.Name, dst, format, env)

	if err := prepareDestination(outputName, format, env.Overwrite, log); err != nil {
		return "", err
	}

	switch format {
	case common.OutputFmtHtml:
		err = html.Generate(ctx, c, outputName, &env.Cfg.Document, env.DefaultStyle, log)
	case common.OutputFmtYaml:
		err = generateYAML(ctx, c, outputName, &env.Cfg.Document, log)
	}
	if err != nil {
		return "", fmt.Errorf("unable to generate output: %w", err)
	}

	// Store conversion result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%s%s", bookID, filepath.Ext(outputName)), outputName)
	if format == common.OutputFmtHtml {
		env.Rpt.Store(fmt.Sprintf("result-%s_files", bookID), html.FilesDir(outputName))
	}
	return outputName, nil
}

// prepareDestination makes sure output could be written, existing results
// are only removed when overwrite was requested.
func prepareDestination(outputName string, format common.OutputFmt, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
		if format == common.OutputFmtHtml {
			if err := os.RemoveAll(html.FilesDir(outputName)); err != nil {
				return err
			}
		}
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
