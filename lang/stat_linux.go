//go:build linux

package lang

import (
	"io/fs"
	"syscall"
	"time"
)

// birthTime reads the inode change time from the raw stat data. Linux does
// not expose a true birth time through os.Stat, so ctime is the closest
// available approximation.
func birthTime(info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec), true
}
