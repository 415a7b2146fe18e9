// Package backup creates and restores timestamped snapshots of the journal:
// diaries.json plus the images directory.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"moodlog/internal/fsutil"
	"moodlog/internal/gallery"
	"moodlog/internal/storage"

	"github.com/dustin/go-humanize"
)

const (
	ManifestVersion = "1.1"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

var dataFiles = []string{storage.DiariesFile}

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string // e.g. ~/.moodlog
	backupDir  string // e.g. ~/.moodlog/backups
	appVersion string
	now        func() time.Time
}

// Manifest describes one backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Dirs       []string       `json:"dirs,omitempty"`
	Stats      map[string]int `json:"stats"`
	Bytes      int64          `json:"bytes"`
}

// BackupInfo summarizes a backup for listings.
type BackupInfo struct {
	Name      string // 2026-03-01_143022_517
	Path      string
	CreatedAt time.Time
	Stats     map[string]int // "diaries", "images"
	Bytes     int64
}

// Size returns the backup size in human form, e.g. "1.4 MB".
func (b BackupInfo) Size() string {
	return humanize.Bytes(uint64(b.Bytes))
}

// Age returns e.g. "3 hours ago".
func (b BackupInfo) Age() string {
	return humanize.Time(b.CreatedAt)
}

// NewManager creates a new backup manager.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Create snapshots the journal and returns the backup name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name, backupPath := m.freshName(now)
	if err := os.MkdirAll(backupPath, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Stats:      make(map[string]int),
	}

	fail := func(format string, args ...any) (string, error) {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf(format, args...)
	}

	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			continue
		}
		if err := fsutil.CopyFileAtomic(src, filepath.Join(backupPath, filename), 0600); err != nil {
			return fail("failed to copy %s: %w", filename, err)
		}
		manifest.Files = append(manifest.Files, filename)
		manifest.Bytes += info.Size()
		if n, err := countDiaries(src); err == nil {
			manifest.Stats["diaries"] = n
		}
	}

	images, err := fsutil.CopyDir(filepath.Join(m.dataDir, gallery.ImagesDir), filepath.Join(backupPath, gallery.ImagesDir), 0600)
	if err != nil {
		return fail("failed to copy images: %w", err)
	}
	if images > 0 {
		manifest.Dirs = append(manifest.Dirs, gallery.ImagesDir)
		manifest.Stats["images"] = countImages(filepath.Join(backupPath, gallery.ImagesDir))
		manifest.Bytes += dirSize(filepath.Join(backupPath, gallery.ImagesDir))
	}

	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		return fail("failed to write manifest: %w", err)
	}
	return name, nil
}

// freshName returns a timestamped name that does not exist yet. Names carry
// milliseconds; collisions within the same millisecond bump forward.
func (m *Manager) freshName(t time.Time) (string, string) {
	for {
		name := fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return name, path
		}
		t = t.Add(time.Millisecond)
	}
}

// List returns all backups, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

// info reads the manifest, falling back to the timestamp in the name.
func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	if manifest.Stats == nil {
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
		Bytes:     manifest.Bytes,
	}, nil
}

// Restore replaces the journal with a backup. A safety backup of the current
// state is taken first and named in any error.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		manifest.Files = dataFiles
		manifest.Dirs = []string{gallery.ImagesDir}
	}

	// Validate before touching live data.
	for _, filename := range manifest.Files {
		if err := validateJSON(filepath.Join(backupPath, filename)); err != nil {
			return fmt.Errorf("backup file %s is invalid: %w", filename, err)
		}
	}

	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		src := filepath.Join(backupPath, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := fsutil.CopyFileAtomic(src, filepath.Join(m.dataDir, filename), 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	for _, dir := range manifest.Dirs {
		src := filepath.Join(backupPath, dir)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(m.dataDir, dir)
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("failed to clear %s (safety backup: %s): %w", dir, safetyName, err)
		}
		if _, err := fsutil.CopyDir(src, dst, 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", dir, safetyName, err)
		}
	}

	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping the keepCount most recent. It returns
// how many were deleted.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// validateJSON checks that a file decodes as a diary store. Missing is fine.
func validateJSON(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var store storage.DiaryStore
	return json.Unmarshal(data, &store)
}

func countDiaries(path string) (int, error) {
	var store storage.DiaryStore
	if err := readJSON(path, &store); err != nil {
		return 0, err
	}
	return len(store.Diaries), nil
}

// countImages counts stored originals, ignoring thumbnails.
func countImages(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}

func dirSize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// parseBackupName accepts 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == len(nameLayout)+4 {
		base, err := time.Parse(nameLayout, name[:len(nameLayout)])
		if err != nil {
			return time.Time{}, err
		}
		if name[len(nameLayout)] != '_' {
			return time.Time{}, errors.New("invalid backup format")
		}
		ms, err := strconv.Atoi(name[len(nameLayout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, errors.New("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Parse(nameLayout, name)
}
