package fileutil

import (
	"os"
	"path/filepath"
)

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func CreateDir(dirs ...string) error {
	for _, dir := range dirs {
		exist, err := PathExists(dir)
		if err != nil {
			return err
		}
		if exist {
			continue
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

// EnsureParent creates the directory holding file.
func EnsureParent(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}
	return CreateDir(dir)
}
