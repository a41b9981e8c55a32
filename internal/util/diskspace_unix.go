//go:build !windows

package util

import (
	"syscall"
)

func GetDiskSpace(path string) (DiskSpaceInfo, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return DiskSpaceInfo{}, err
	}
	bsize := uint64(stat.Bsize)
	return newDiskSpaceInfo(stat.Bavail*bsize, stat.Blocks*bsize), nil
}
