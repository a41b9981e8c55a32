package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coah80/docxify/internal/util"
)

type fakeExecutor struct {
	lookErr error
	run     func(ctx context.Context, name string, args []string, stderr io.Writer) error
	calls   [][]string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.run(ctx, name, args, stderr)
}

func newTestConverter(fe *fakeExecutor) *Converter {
	return &Converter{bin: "pdf2docx", exec: fe}
}

func paths(t *testing.T) (string, string) {
	dir := t.TempDir()
	in := filepath.Join(dir, "report_a1b2c3d4.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4"), 0644))
	return in, filepath.Join(dir, "report_a1b2c3d4_converted.docx")
}

func TestConvert_Success(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(_ context.Context, _ string, args []string, _ io.Writer) error {
		return os.WriteFile(args[2], []byte("PK docx"), 0644)
	}}

	got, err := newTestConverter(fe).Convert(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.Equal(t, [][]string{{"pdf2docx", "convert", in, out}}, fe.calls)
	assert.FileExists(t, in)
}

func TestConvert_EngineFailureRemovesPartialOutput(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(_ context.Context, _ string, args []string, stderr io.Writer) error {
		os.WriteFile(args[2], []byte("half"), 0644)
		io.WriteString(stderr, "Traceback...\nValueError: broken xref table\n")
		return errors.New("exit status 1")
	}}

	_, err := newTestConverter(fe).Convert(context.Background(), in, out)
	require.Error(t, err)
	assert.Equal(t, util.KindConversion, util.KindOf(err))

	var ue *util.Error
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Message, "broken xref table")
	assert.NoFileExists(t, out)
}

func TestConvert_MultibyteStderrStaysValidUTF8(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(_ context.Context, _ string, _ []string, stderr io.Writer) error {
		io.WriteString(stderr, "x"+strings.Repeat("ü", 400))
		return errors.New("exit status 1")
	}}

	_, err := newTestConverter(fe).Convert(context.Background(), in, out)
	var ue *util.Error
	require.ErrorAs(t, err, &ue)
	assert.True(t, utf8.ValidString(ue.Message))
	assert.NotContains(t, ue.Message, "\uFFFD")
	assert.LessOrEqual(t, len(ue.Message), 300)
}

func TestConvert_NoOutputIsFailure(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(context.Context, string, []string, io.Writer) error { return nil }}

	_, err := newTestConverter(fe).Convert(context.Background(), in, out)
	require.Error(t, err)
	assert.Equal(t, util.KindConversion, util.KindOf(err))
	assert.NoFileExists(t, out)
}

func TestConvert_EmptyOutputIsFailure(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(_ context.Context, _ string, args []string, _ io.Writer) error {
		return os.WriteFile(args[2], nil, 0644)
	}}

	_, err := newTestConverter(fe).Convert(context.Background(), in, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestConvert_Timeout(t *testing.T) {
	in, out := paths(t)
	fe := &fakeExecutor{run: func(ctx context.Context, _ string, _ []string, _ io.Writer) error {
		<-ctx.Done()
		return errors.New("signal: killed")
	}}
	c := newTestConverter(fe)
	c.timeout = 20 * time.Millisecond

	_, err := c.Convert(context.Background(), in, out)
	require.Error(t, err)

	var ue *util.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Conversion timed out", ue.Message)
}

func TestConvert_MissingBinary(t *testing.T) {
	in, out := paths(t)
	c := NewConverter(testConfig(t))
	c.bin = "docxify-no-such-engine"

	assert.False(t, c.Available())
	_, err := c.Convert(context.Background(), in, out)
	require.Error(t, err)

	var ue *util.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Conversion engine is not installed on the server", ue.Message)
}

func TestNewConverterUsesConfiguredBin(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConverterBin = "/opt/engine/pdf2docx"
	assert.Equal(t, "/opt/engine/pdf2docx", NewConverter(cfg).Bin())
}

func TestAvailable(t *testing.T) {
	assert.True(t, newTestConverter(&fakeExecutor{}).Available())
	assert.False(t, newTestConverter(&fakeExecutor{lookErr: errors.New("nope")}).Available())
}
