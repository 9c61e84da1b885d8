package usecase

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"time"

	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// fileNamePattern is <timestamp>_skipAI_<flag>_<original>.csv
var fileNamePattern = regexp.MustCompile(`^(\d+)_skipAI_(\d+)_(.+\.csv)$`)

// FileMeta is what an upload's name says about its rows.
type FileMeta struct {
	UploadedAt   time.Time // from the timestamp prefix; zero when it overflows
	SkipAI       int64
	OriginalName string
	CampaignName string
}

// ParseFileName extracts the skip-AI flag and the campaign from an upload's
// base name. ok is false when the name does not follow the convention.
// A skip-AI value that does not fit an int64 reads as 0.
func ParseFileName(base string) (meta FileMeta, ok bool) {
	m := fileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return FileMeta{}, false
	}

	stamp, _ := strconv.ParseInt(m[1], 10, 64)
	skipAI, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		skipAI = 0
	}

	original := m[3]
	return FileMeta{
		UploadedAt:   utils.StampToTime(stamp),
		SkipAI:       skipAI,
		OriginalName: original,
		CampaignName: strings.TrimSuffix(original, filepath.Ext(original)),
	}, true
}

// Via is the routing value stamped on every address of the file.
func (m FileMeta) Via() int {
	if m.SkipAI != 0 {
		return model.ViaSkipAI
	}
	return model.ViaDefault
}

// MapImageURL is the image placeholder stamped on every address of the file.
func (m FileMeta) MapImageURL() string {
	if m.SkipAI != 0 {
		return model.MapImageURLSkipAI
	}
	return model.MapImageURLDefault
}
