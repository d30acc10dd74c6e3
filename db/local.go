package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/itzjapcee-code/mosquito-tracker/logging"
)

// LocalStore backs collections with one JSON array file per collection. It is
// the single-process fallback: every write reloads the collection and
// rewrites the whole file, which is O(collection size) and only appropriate
// at small team scale. A process-local mutex serializes writers inside one
// process; there is no cross-process locking, so concurrent processes can
// lose writes to each other (last full-file rewrite wins).
type LocalStore struct {
	mu          sync.Mutex
	taskFile    string
	contribFile string
}

func NewLocalStore(taskFile, contribFile string) *LocalStore {
	return &LocalStore{taskFile: taskFile, contribFile: contribFile}
}

func (s *LocalStore) path(collection string) string {
	if collection == TasksCollection {
		return s.taskFile
	}
	return s.contribFile
}

// Load decodes the whole backing file into out. A missing file is an empty
// collection. A file that fails to parse is also treated as empty so a
// corrupted store never takes the service down, but the failure is logged
// loudly because it is indistinguishable from data loss.
func (s *LocalStore) Load(ctx context.Context, collection string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(collection, out)
}

func (s *LocalStore) load(collection string, out any) error {
	data, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: LOCAL_READ_FAILED, Description: Reading %s failed, treating collection as empty: %v", s.path(collection), err)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Logger.Errorf("Event ID: LOCAL_PARSE_FAILED, Description: Parsing %s failed, treating collection as empty (possible data loss): %v", s.path(collection), err)
		return nil
	}
	return nil
}

// records loads the raw record maps of a collection, preserving every field
// the stored JSON carries.
func (s *LocalStore) records(collection string) []map[string]any {
	var records []map[string]any
	_ = s.load(collection, &records)
	return records
}

func (s *LocalStore) writeAll(collection string, records []map[string]any) error {
	if records == nil {
		records = []map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode %s: %v", collection, err)
	}
	if err := os.WriteFile(s.path(collection), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", s.path(collection), err)
	}
	return nil
}

func toRecord(doc any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to encode record: %v", err)
	}
	return record, nil
}

func recordID(record map[string]any) string {
	return fmt.Sprint(record["id"])
}

// Upsert replaces the record with a matching id or appends a new one, then
// rewrites the backing file. Not atomic across processes.
func (s *LocalStore) Upsert(ctx context.Context, collection, id string, doc any) error {
	record, err := toRecord(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records(collection)
	replaced := false
	for i := range records {
		if recordID(records[i]) == id {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.writeAll(collection, records)
}

// Delete filters the record out by id and reports whether anything was
// actually removed.
func (s *LocalStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records(collection)
	kept := records[:0]
	for _, r := range records {
		if recordID(r) != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := s.writeAll(collection, kept); err != nil {
		return false, err
	}
	return true, nil
}

// PatchField mutates one field of the record with the given id. A missing id
// leaves the file untouched.
func (s *LocalStore) PatchField(ctx context.Context, collection, id, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records(collection)
	for i := range records {
		if recordID(records[i]) == id {
			records[i][field] = value
			return s.writeAll(collection, records)
		}
	}
	return nil
}
