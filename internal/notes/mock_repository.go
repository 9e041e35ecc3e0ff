package notes

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var errMockFailure = errors.New("storage failure")

// mockRepository is an in-memory Repository used by the test suites.
type mockRepository struct {
	mu     sync.RWMutex
	notes  map[uint]*Note
	nextID uint

	failCreate bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		notes:  make(map[uint]*Note),
		nextID: 1,
	}
}

func (m *mockRepository) Create(note *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate {
		return errMockFailure
	}

	note.ID = m.nextID
	m.nextID++
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt

	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockRepository) GetByID(id uint) (*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	clone := *note
	return &clone, nil
}

func (m *mockRepository) List(userID uint, opts ListOptions) ([]Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Note
	for _, note := range m.notes {
		if note.UserID != userID {
			continue
		}
		if opts.TitleFilter != "" &&
			!strings.Contains(strings.ToLower(note.Title), strings.ToLower(opts.TitleFilter)) {
			continue
		}
		result = append(result, *note)
	}

	sort.Slice(result, func(i, j int) bool {
		if opts.Order == "DESC" {
			return result[i].ID > result[j].ID
		}
		return result[i].ID < result[j].ID
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return nil, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockRepository) Update(note *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[note.ID]; !ok {
		return ErrNoteNotFound
	}
	note.UpdatedAt = time.Now()
	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockRepository) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.notes, id)
	return nil
}

func (m *mockRepository) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes)
}
