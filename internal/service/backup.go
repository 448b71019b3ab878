package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

const checksumSuffix = ".sha256"

// BackupFileName is the default name of a backup of storePath taken at t.
func BackupFileName(storePath string, t time.Time) string {
	ext := filepath.Ext(storePath)
	base := strings.TrimSuffix(filepath.Base(storePath), ext)
	return fmt.Sprintf("%s-%s%s", base, t.Format("20060102-150405"), ext)
}

// CreateBackup copies a store file and writes its checksum beside the copy.
func CreateBackup(storePath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(storePath) == "" {
		return BackupInfo{}, fmt.Errorf("store path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	// A backup is only left behind together with its checksum.
	discard := func(err error) (BackupInfo, error) {
		_ = os.Remove(outPath)
		return BackupInfo{}, err
	}
	if err := copyFile(storePath, outPath); err != nil {
		return discard(err)
	}
	sum, err := fileSHA256(outPath)
	if err != nil {
		return discard(err)
	}
	if err := os.WriteFile(outPath+checksumSuffix, []byte(sum+"\n"), 0o644); err != nil {
		return discard(fmt.Errorf("write checksum file: %w", err))
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: sum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies a backup over the store file. A checksum file next to
// the backup, when present, must match.
func RestoreBackup(backupPath, storePath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(storePath) == "" {
		return fmt.Errorf("backup path and store path are required")
	}
	if !strings.EqualFold(filepath.Ext(backupPath), filepath.Ext(storePath)) {
		return fmt.Errorf("backup %s does not match store type %s", filepath.Base(backupPath), filepath.Ext(storePath))
	}
	if !force {
		if _, err := os.Stat(storePath); err == nil {
			return fmt.Errorf("store already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + checksumSuffix); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return copyFile(backupPath, storePath)
}

// ListBackups returns the .db and .xlsx backups in dir, newest first.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if f.IsDir() || (ext != ".db" && ext != ".xlsx") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		sum := ""
		if b, err := os.ReadFile(full + checksumSuffix); err == nil {
			sum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: sum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
