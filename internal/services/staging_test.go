package services

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/util"
)

func testConfig(t *testing.T) config.Config {
	root := t.TempDir()
	cfg := config.Config{
		UploadDir:    filepath.Join(root, "uploads"),
		ConvertedDir: filepath.Join(root, "converted"),
		ConverterBin: "pdf2docx",
		Retention:    config.FileRetention,
	}
	require.NoError(t, util.EnsureDirs(cfg.UploadDir, cfg.ConvertedDir))
	return cfg
}

func TestPlan(t *testing.T) {
	cfg := testConfig(t)
	s := NewStager(cfg)
	s.newID = func() string { return "a1b2c3d4" }

	up := s.Plan("report.pdf")
	assert.Equal(t, "report_a1b2c3d4.pdf", up.StagingName)
	assert.Equal(t, "report_a1b2c3d4_converted.docx", up.OutputName)
	assert.Equal(t, filepath.Join(cfg.UploadDir, up.StagingName), up.StagingPath)
	assert.Equal(t, filepath.Join(cfg.ConvertedDir, up.OutputName), up.OutputPath)

	up = s.Plan("../../My Scan.PDF")
	assert.Equal(t, "My_Scan_a1b2c3d4.pdf", up.StagingName)
	assert.Equal(t, "My_Scan_a1b2c3d4_converted.docx", up.OutputName)
}

func TestStage(t *testing.T) {
	cfg := testConfig(t)
	s := NewStager(cfg)

	up, err := s.Stage(strings.NewReader("%PDF-1.7 body"), "report.pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(up.StagingPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
	assert.Regexp(t, `^report_[0-9a-f]{8}\.pdf$`, up.StagingName)
	assert.NoFileExists(t, up.OutputPath)
}

func TestStage_CollisionDoesNotOverwrite(t *testing.T) {
	cfg := testConfig(t)
	s := NewStager(cfg)
	s.newID = func() string { return "deadbeef" }

	first, err := s.Stage(strings.NewReader("first"), "report.pdf")
	require.NoError(t, err)

	_, err = s.Stage(strings.NewReader("second"), "report.pdf")
	require.Error(t, err)
	assert.Equal(t, util.KindFilesystem, util.KindOf(err))

	data, err := os.ReadFile(first.StagingPath)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestStage_ConcurrentSameNameAreDistinct(t *testing.T) {
	cfg := testConfig(t)
	s := NewStager(cfg)

	const n = 20
	var wg sync.WaitGroup
	results := make([]*StagedUpload, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Stage(strings.NewReader("same"), "report.pdf")
		}(i)
	}
	wg.Wait()

	staging := make(map[string]bool)
	output := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		staging[results[i].StagingName] = true
		output[results[i].OutputName] = true
	}
	assert.Len(t, staging, n)
	assert.Len(t, output, n)

	entries, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}
