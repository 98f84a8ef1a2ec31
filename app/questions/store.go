package questions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Submission is one accepted listener question, appended to the log file.
type Submission struct {
	Timestamp string  `json:"timestamp"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Question  string  `json:"question"`
	Category  string  `json:"category"`
	IP        string  `json:"ip"`
	UserAgent string  `json:"userAgent"`
}

// Store appends submissions to a JSON-array file. The file is read-modify-
// written as a whole; a process-wide mutex serializes writers so concurrent
// submissions cannot clobber each other. The log is append-only: nothing in
// this system ever mutates or deletes past entries.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Append(submission Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.readAll()
	if err != nil {
		return err
	}

	submissions = append(submissions, submission)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create questions directory: %w", err)
	}

	data, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write questions file: %w", err)
	}

	return nil
}

// All returns every logged submission. A missing file means no submissions
// yet, not an error.
func (s *Store) All() ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAll()
}

func (s *Store) readAll() ([]Submission, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var submissions []Submission
	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, fmt.Errorf("failed to parse questions file: %w", err)
	}

	return submissions, nil
}
