// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roster

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
)

const reportsDir = "reports"

// ReportStore keeps run reports on disk. Reports hold student enrollment data,
// so they are encrypted whenever a master key is available.
type ReportStore struct {
	Dir     string
	storage *storage.Storage
}

// NewReportStore creates a ReportStore backed by s.
func NewReportStore(dir string, s *storage.Storage) *ReportStore {
	return &ReportStore{Dir: dir, storage: s}
}

// OpenReportStore opens the store in dir. With a non-empty passphrase the
// master key in dir/master.key is loaded, or created on first use. Without a
// passphrase it refuses to open a directory that already has a master key.
func OpenReportStore(dir, passphrase string) (*ReportStore, error) {
	var masterKey crypto.MasterKey
	keyFile := filepath.Join(dir, "master.key")
	if passphrase != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating report dir: %w", err)
		}
		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading master key: %w", err)
			}
			log.Println("Initializing new master encryption key...")
			if masterKey, err = crypto.CreateMasterKey(); err != nil {
				return nil, fmt.Errorf("creating master key: %w", err)
			}
			if err := masterKey.Save([]byte(passphrase), keyFile); err != nil {
				return nil, fmt.Errorf("saving master key: %w", err)
			}
		}
	} else {
		if _, err := os.Stat(keyFile); err == nil {
			return nil, fmt.Errorf("%s exists but no passphrase was provided; refusing to use encrypted reports unencrypted", keyFile)
		}
		log.Println("Warning: no master key passphrase provided. Reports will be stored UNENCRYPTED.")
	}
	s := storage.New(dir, masterKey)
	s.EnableCompression(true)
	return NewReportStore(dir, s), nil
}

// ReportName returns the storage name of the report for runID.
func ReportName(runID string) string {
	return filepath.Join(reportsDir, runID+".json")
}

// Save writes the report under its run ID.
func (rs *ReportStore) Save(r *Report) error {
	if r.RunID == "" {
		return fmt.Errorf("report has no run ID")
	}
	if err := rs.storage.SaveDataFile(ReportName(r.RunID), r); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// Load reads a report by run ID, by storage name, or by a path under Dir.
func (rs *ReportStore) Load(ref string) (*Report, error) {
	name := strings.TrimPrefix(ref, rs.Dir+string(filepath.Separator))
	if !strings.HasSuffix(name, ".json") {
		name = ReportName(name)
	}
	var r Report
	if err := rs.storage.ReadDataFile(name, &r); err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	return &r, nil
}

// List returns the run IDs of the stored reports, sorted.
func (rs *ReportStore) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(rs.Dir, reportsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
