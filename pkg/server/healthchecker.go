package server

import (
	"context"
	"os"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// DirHealthChecker reports healthy while its directory exists and is readable.
type DirHealthChecker struct {
	dir string
}

func NewDirHealthChecker(dir string) *DirHealthChecker {
	return &DirHealthChecker{dir: dir}
}

func (hc *DirHealthChecker) Healthy(ctx context.Context) bool {
	info, err := os.Stat(hc.dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.ReadDir(hc.dir)
	return err == nil
}
