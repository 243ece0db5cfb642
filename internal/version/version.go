package version

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Заполняются при сборке через -ldflags "-X crawler-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - день, от которого считается номер сборки
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// VersionInfo - метаданные сборки для /version и логов старта.
type VersionInfo struct {
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	GoVersion  string `json:"go_version"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

var (
	ErrNoBuildDate  = errors.New("build date not set")
	ErrBeforeEpoch  = errors.New("build date before epoch")
	ErrBadBuildDate = errors.New("malformed build date")
)

// CalculateBuildID - число полных дней от buildEpoch до BuildDate.
func CalculateBuildID() (int, error) {
	return daysSinceEpoch(BuildDate)
}

func daysSinceEpoch(date string) (int, error) {
	if date == "" {
		return 0, ErrNoBuildDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%w %q: %v", ErrBadBuildDate, date, err)
	case t.Before(buildEpoch):
		return 0, fmt.Errorf("%w: %s", ErrBeforeEpoch, date)
	}
	return int(t.Sub(buildEpoch) / (24 * time.Hour)), nil
}

func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

// String - строка для логов старта.
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("crawler-server build unknown (%s)", info.Error)
	}
	return fmt.Sprintf(
		"crawler-server build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
