// Copyright 2024 The ecvectors Authors
// This file is part of the ecvectors library.
//
// The ecvectors library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ecvectors library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ecvectors library. If not, see <http://www.gnu.org/licenses/>.

package vectors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ethvectors/ecvectors/common"
	"github.com/ethvectors/ecvectors/log"
	"github.com/gofrs/flock"
)

const (
	lockFileName = ".ecvectors.lock"
	tempSuffix   = ".tmp"
)

// ErrOutputLocked is returned when another run holds the output directory.
var ErrOutputLocked = errors.New("output directory is locked by another run")

// FileStat describes one file written by a Writer.
type FileStat struct {
	Path    string
	Records int
	Size    common.StorageSize
}

// Writer persists suites as JSON documents in a single output directory. It
// holds an advisory lock on the directory until closed.
type Writer struct {
	dir  string
	lock *flock.Flock
}

// OpenWriter creates dir if needed and locks it for the lifetime of the
// returned writer.
func OpenWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return &Writer{dir: dir, lock: lock}, nil
}

// FileName returns the file name of an operation's success or failure suite.
func FileName(prefix string, op Op, fail bool) string {
	if fail {
		return fmt.Sprintf("%s_%s_fail.json", prefix, op)
	}
	return fmt.Sprintf("%s_%s.json", prefix, op)
}

// Write stores the success and failure vectors of suite in two files named
// after prefix and the suite's operation. Both documents are staged into temp
// files first and only renamed into place once both are durable, so a failed
// staging step leaves the previous pair untouched.
func (w *Writer) Write(prefix string, suite Suite) ([]FileStat, error) {
	start := time.Now()

	// Empty suites are written as empty arrays, never as null.
	successes, failures := suite.Success, suite.Failure
	if successes == nil {
		successes = []Success{}
	}
	if failures == nil {
		failures = []Failure{}
	}
	success, err := w.stage(FileName(prefix, suite.Op, false), successes, len(successes))
	if err != nil {
		return nil, err
	}
	failure, err := w.stage(FileName(prefix, suite.Op, true), failures, len(failures))
	if err != nil {
		removeTemp(success.Path + tempSuffix)
		return nil, err
	}
	if err := w.commit(success.Path, failure.Path); err != nil {
		return nil, err
	}
	log.Debug("Persisted vector suite", "op", suite.Op, "dir", w.dir, "size", success.Size+failure.Size, "elapsed", common.PrettyDuration(time.Since(start)))
	return []FileStat{success, failure}, nil
}

// Close releases the directory lock. The lock file itself stays on disk;
// removing it after unlocking would race with a concurrent OpenWriter.
func (w *Writer) Close() error {
	return w.lock.Unlock()
}

// stage marshals v and writes it durably into the temp file of name.
func (w *Writer) stage(name string, v any, records int) (FileStat, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return FileStat{}, err
	}
	path := filepath.Join(w.dir, name)
	if err := writeTemp(path+tempSuffix, blob); err != nil {
		return FileStat{}, err
	}
	return FileStat{Path: path, Records: records, Size: common.StorageSize(len(blob))}, nil
}

// commit renames the staged temp files of paths over their targets and syncs
// the directory. Temp files left behind by a failed rename are removed.
func (w *Writer) commit(paths ...string) error {
	for i, path := range paths {
		if err := os.Rename(path+tempSuffix, path); err != nil {
			for _, rest := range paths[i:] {
				removeTemp(rest + tempSuffix)
			}
			return fmt.Errorf("failed to rename %s: %w", path+tempSuffix, err)
		}
	}
	return syncDir(w.dir)
}

// writeTemp writes blob into tmp and fsyncs it. The file is removed on any
// failure.
func writeTemp(tmp string, blob []byte) (err error) {
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", tmp, err)
	}
	defer func() {
		if file != nil {
			file.Close()
		}
		if err != nil {
			removeTemp(tmp)
		}
	}()
	if _, err := file.Write(blob); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to fsync %s: %w", tmp, err)
	}
	err = file.Close()
	file = nil
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return nil
}

func removeTemp(tmp string) {
	switch err := os.Remove(tmp); {
	case err == nil:
		log.Warn("Removed leftover temporary vector file", "path", tmp)
	case !os.IsNotExist(err):
		log.Warn("Failed to remove temporary vector file", "path", tmp, "err", err)
	}
}

// syncDir flushes the directory entry of renamed files to disk.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to fsync %s: %w", dir, err)
	}
	return nil
}
