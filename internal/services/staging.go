package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/util"
)

// StagedUpload names one upload and the artifact it will become.
type StagedUpload struct {
	OriginalName string
	ID           string
	BaseName     string
	StagingName  string
	StagingPath  string
	OutputName   string
	OutputPath   string
}

type Stager struct {
	uploadDir    string
	convertedDir string
	targetExt    string
	newID        func() string
}

func NewStager(cfg config.Config) *Stager {
	return &Stager{
		uploadDir:    cfg.UploadDir,
		convertedDir: cfg.ConvertedDir,
		targetExt:    config.TargetExt,
		newID:        util.ShortID,
	}
}

// Plan derives every name for an upload without touching the filesystem.
func (s *Stager) Plan(originalName string) StagedUpload {
	id := s.newID()
	base := util.BaseName(originalName)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if ext == "" {
		ext = "pdf"
	}

	stagingName := fmt.Sprintf("%s_%s.%s", base, id, ext)
	outputName := fmt.Sprintf("%s_%s_converted.%s", base, id, s.targetExt)
	return StagedUpload{
		OriginalName: originalName,
		ID:           id,
		BaseName:     base,
		StagingName:  stagingName,
		StagingPath:  filepath.Join(s.uploadDir, stagingName),
		OutputName:   outputName,
		OutputPath:   filepath.Join(s.convertedDir, outputName),
	}
}

// Stage writes src into the staging directory. The file is created
// exclusively, so an id collision fails instead of overwriting.
func (s *Stager) Stage(src io.Reader, originalName string) (*StagedUpload, error) {
	up := s.Plan(originalName)

	dst, err := os.OpenFile(up.StagingPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, util.NewError(util.KindFilesystem, "Failed to save file", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(up.StagingPath)
		return nil, util.NewError(util.KindFilesystem, "Failed to save file", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(up.StagingPath)
		return nil, util.NewError(util.KindFilesystem, "Failed to save file", err)
	}
	return &up, nil
}
