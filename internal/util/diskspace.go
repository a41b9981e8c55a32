package util

const gib = 1024 * 1024 * 1024

type DiskSpaceInfo struct {
	AvailGB float64
	TotalGB float64
	UsedGB  float64
}

func (d DiskSpaceInfo) Below(minGB float64) bool {
	return minGB > 0 && d.AvailGB < minGB
}

func newDiskSpaceInfo(avail, total uint64) DiskSpaceInfo {
	availGB := float64(avail) / gib
	totalGB := float64(total) / gib
	return DiskSpaceInfo{
		AvailGB: availGB,
		TotalGB: totalGB,
		UsedGB:  totalGB - availGB,
	}
}
