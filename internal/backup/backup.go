package backup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/logger"
)

const timestampFormat = "20060102-150405"

// Kind tells exports and database snapshots apart.
type Kind string

const (
	// KindExport is a portable JSON document produced by the store
	KindExport Kind = "export"
	// KindSnapshot is a byte-level copy of the database file
	KindSnapshot Kind = "snapshot"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Kind      Kind
	Timestamp time.Time
	Size      int64

	seq int
}

// Manager handles backup files next to the database
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager for the database at dbPath
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// snapshotSuffix keeps the database's own extension so a snapshot of a JSON
// store stays a JSON file.
func (m *Manager) snapshotSuffix() string {
	if ext := filepath.Ext(m.dbPath); ext != "" {
		return ext
	}
	return ".db"
}

// uniquePath returns a free path for prefix+timestamp+suffix, adding a
// counter when several backups land in the same second.
func (m *Manager) uniquePath(prefix, suffix string) (string, error) {
	timestamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, prefix+timestamp+suffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", prefix, timestamp, counter, suffix))
	}
}

// WriteExport stores an exported backup document and rotates old exports.
func (m *Manager) WriteExport(data []byte) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("export is not valid JSON")
	}
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.uniquePath(constants.BackupFilePrefix, constants.BackupFileSuffix)
	if err != nil {
		return "", err
	}

	// Write to a temp file and rename so a crash never leaves half an export
	tempPath := path + ".tmp"
	if err := writeFileSync(tempPath, data); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	if err := m.rotate(KindExport); err != nil {
		// A failed rotation never fails the export itself
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

// ReadExport returns the contents of an export. A bare file name is looked up
// in the backup directory.
func (m *Manager) ReadExport(path string) ([]byte, error) {
	if !strings.ContainsRune(path, filepath.Separator) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = filepath.Join(m.backupDir, path)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

// Snapshot copies the database file into the backup directory. SQLite
// databases are copied with VACUUM INTO; other stores are copied byte for byte.
func (m *Manager) Snapshot() (string, error) {
	return m.snapshot(false)
}

// snapshot creates a snapshot of the database.
// skipRotation keeps a pre-restore snapshot from pushing out the one being restored.
func (m *Manager) snapshot(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.uniquePath(constants.SnapshotPrefix, m.snapshotSuffix())
	if err != nil {
		return "", err
	}

	if m.isSQLite() {
		err = m.vacuumInto(path)
	} else {
		err = copyFile(m.dbPath, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	if !skipRotation {
		if err := m.rotate(KindSnapshot); err != nil {
			logger.Warn("failed to rotate old snapshots", "error", err)
		}
	}
	return path, nil
}

func (m *Manager) isSQLite() bool {
	return !strings.EqualFold(filepath.Ext(m.dbPath), ".json")
}

// vacuumInto writes a clean, consistent copy of the database to destPath
func (m *Manager) vacuumInto(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns exports and snapshots, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		var kind Kind
		var stamp string
		switch {
		case strings.HasPrefix(name, constants.BackupFilePrefix) && strings.HasSuffix(name, constants.BackupFileSuffix):
			kind = KindExport
			stamp = strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		case strings.HasPrefix(name, constants.SnapshotPrefix) && strings.HasSuffix(name, m.snapshotSuffix()):
			kind = KindSnapshot
			stamp = strings.TrimSuffix(strings.TrimPrefix(name, constants.SnapshotPrefix), m.snapshotSuffix())
		default:
			continue
		}

		timestamp, seq, ok := parseStamp(stamp)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Kind:      kind,
			Timestamp: timestamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	// Newest first; the counter breaks ties within one second
	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})

	return backups, nil
}

// parseStamp reads YYYYMMDD-HHMMSS with an optional -N counter
func parseStamp(stamp string) (time.Time, int, bool) {
	seq := 0
	if len(stamp) > len(timestampFormat) {
		rest := stamp[len(timestampFormat):]
		if !strings.HasPrefix(rest, "-") {
			return time.Time{}, 0, false
		}
		n, err := strconv.Atoi(rest[1:])
		if err != nil || n <= 0 {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = stamp[:len(timestampFormat)]
	}
	t, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return t, seq, true
}

// rotate removes backups of one kind beyond the retention limit
func (m *Manager) rotate(kind Kind) error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	kept := 0
	for _, b := range backups {
		if b.Kind != kind {
			continue
		}
		kept++
		if kept <= constants.MaxBackups {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// RestoreSnapshot replaces the database file with a snapshot. The current
// database is snapshotted first. The caller must close the database before
// calling this.
func (m *Manager) RestoreSnapshot(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return fmt.Errorf("snapshot file does not exist: %s", snapshotPath)
	}

	if err := m.verifySnapshot(snapshotPath); err != nil {
		return fmt.Errorf("snapshot file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		current, err := m.snapshot(true)
		if err != nil {
			return fmt.Errorf("failed to snapshot current database before restore: %w", err)
		}
		logger.Info("snapshot of current database taken before restore", "path", current)
	}

	// Copy to a temp file and rename so the database is never half written
	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(snapshotPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}

	// Stale WAL files from the replaced database must not be replayed
	if m.isSQLite() {
		os.Remove(m.dbPath + "-wal")
		os.Remove(m.dbPath + "-shm")
	}
	return nil
}

// verifySnapshot checks that a snapshot is readable as the backend's format
func (m *Manager) verifySnapshot(path string) error {
	if !m.isSQLite() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("not a JSON document")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	// Sync to ensure data is written to disk
	return destFile.Sync()
}
