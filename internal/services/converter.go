package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/util"
)

const stderrTail = 500

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	return cmd.Run()
}

// Converter runs the external PDF to DOCX engine. The engine is invoked as
// "<bin> convert <input> <output>", which is the pdf2docx command line.
type Converter struct {
	bin     string
	timeout time.Duration
	exec    executor
}

func NewConverter(cfg config.Config) *Converter {
	return &Converter{
		bin:     cfg.ConverterBin,
		timeout: cfg.ConvertTimeout,
		exec:    osExecutor{},
	}
}

func (c *Converter) Bin() string { return c.bin }

func (c *Converter) Available() bool {
	_, err := c.exec.LookPath(c.bin)
	return err == nil
}

// Convert blocks until the engine exits. On success it returns outputPath.
// Every failure comes back as a *util.Error of KindConversion and leaves no
// file at outputPath. The input file is never touched.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var stderr bytes.Buffer
	args := []string{"convert", inputPath, outputPath}
	if err := c.exec.Run(ctx, c.bin, args, &stderr); err != nil {
		util.RemoveQuiet(outputPath)

		tail := util.Tail(strings.TrimSpace(stderr.String()), stderrTail)
		log.Printf("[Convert] %s failed after %s: %v. Last %d chars: %s",
			c.bin, time.Since(start).Round(time.Millisecond), err, stderrTail, tail)

		detail := tail
		if ctxErr := ctx.Err(); ctxErr != nil {
			detail = ctxErr.Error()
		} else if detail == "" {
			detail = err.Error()
		}
		return "", util.NewError(util.KindConversion, util.ToUserError(detail), err)
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		util.RemoveQuiet(outputPath)
		if err == nil {
			err = fmt.Errorf("empty output file")
		}
		return "", util.NewError(util.KindConversion, "Converter produced no output", err)
	}

	log.Printf("[Convert] %s -> %s in %s", inputPath, outputPath, time.Since(start).Round(time.Millisecond))
	return outputPath, nil
}
