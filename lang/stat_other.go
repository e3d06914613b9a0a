//go:build !linux

package lang

import (
	"io/fs"
	"time"
)

func birthTime(fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
