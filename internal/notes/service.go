package notes

import (
	"errors"

	"go.uber.org/zap"
)

var ErrInvalidData = errors.New("invalid data")

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

func (s *Service) List(userID uint, query ListQuery) ([]Note, error) {
	result, err := s.repository.List(userID, ListOptions{
		Order:       query.Order,
		Limit:       query.Limit,
		Offset:      query.Page,
		TitleFilter: query.Sort,
	})
	if err != nil {
		s.log.Error("failed to list notes", zap.Uint("user_id", userID), zap.Error(err))
		return nil, ErrInvalidData
	}
	return result, nil
}

func (s *Service) Create(userID uint, ip string, input CreateNoteInput) (uint, error) {
	note := &Note{
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		IPAddress: ip,
	}

	if err := s.repository.Create(note); err != nil {
		s.log.Error("failed to create note", zap.Uint("user_id", userID), zap.Error(err))
		return 0, ErrInvalidData
	}

	return note.ID, nil
}

// Get returns a single note. Notes are private: requesting another user's
// note reports not-found rather than forbidden.
func (s *Service) Get(userID, id uint) (*Note, error) {
	note, err := s.ownedNote(userID, id)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Update(userID, id uint, ip string, input UpdateNoteInput) error {
	note, err := s.ownedNote(userID, id)
	if err != nil {
		return err
	}

	if input.Title != "" {
		note.Title = input.Title
	}
	if input.Content != "" {
		note.Content = input.Content
	}
	note.IPAddress = ip

	if err := s.repository.Update(note); err != nil {
		return ErrInvalidData
	}

	return nil
}

func (s *Service) Delete(userID, id uint) error {
	if _, err := s.ownedNote(userID, id); err != nil {
		return err
	}

	if err := s.repository.Delete(id); err != nil {
		return ErrInvalidData
	}

	return nil
}

func (s *Service) ownedNote(userID, id uint) (*Note, error) {
	note, err := s.repository.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, ErrInvalidData
	}

	if note.UserID != userID {
		return nil, ErrNoteNotFound
	}

	return note, nil
}
