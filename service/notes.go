package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/store"
	"github.com/tobibamidele/notekeep/validator"
	"go.uber.org/zap"
)

// NoteService manages the notes of authenticated users. Every operation is
// scoped to the owner; someone else's note is reported as not found.
type NoteService struct {
	store  store.Store
	logger *zap.Logger
}

// NewNoteService creates a note service
func NewNoteService(st store.Store, logger *zap.Logger) *NoteService {
	return &NoteService{store: st, logger: logger}
}

// Create stores a new note for userID
func (s *NoteService) Create(ctx context.Context, userID string, req models.NoteRequest) (*models.Note, error) {
	if err := validator.Required("Title and content are required", &req, &req.Title, &req.Content); err != nil {
		return nil, err
	}
	if err := validator.ValidateStatus(req.Status); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.NoteStatusSaved
	}

	now := utcNow()
	note := &models.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Status:    status,
		Favorite:  req.Favorite != nil && *req.Favorite,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		s.logger.Error("failed to create note", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrInternal
	}

	s.logger.Info("note created", zap.String("user_id", userID), zap.String("note_id", note.ID))
	return note, nil
}

// List returns all notes of userID in creation order
func (s *NoteService) List(ctx context.Context, userID string) ([]*models.Note, error) {
	notes, err := s.store.ListNotes(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list notes", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrInternal
	}
	return notes, nil
}

// Update changes the fields present in req. Empty strings and a nil favorite
// leave the stored value alone.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req models.NoteRequest) (*models.Note, error) {
	if err := validator.ValidateStatus(req.Status); err != nil {
		return nil, err
	}

	note, err := s.get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	if req.Status != "" {
		note.Status = req.Status
	}
	if req.Favorite != nil {
		note.Favorite = *req.Favorite
	}

	if err := s.save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// SetStatus moves a note between draft and saved
func (s *NoteService) SetStatus(ctx context.Context, userID, noteID string, status models.NoteStatus) (*models.Note, error) {
	if status == "" {
		return nil, errors.NewMissingFieldError("status", "Status is required")
	}
	if err := validator.ValidateStatus(status); err != nil {
		return nil, err
	}

	note, err := s.get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Status = status
	if err := s.save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// SetFavorite sets the favorite flag. A nil favorite means the client sent
// something other than a boolean; it is rejected only once the note is known
// to exist.
func (s *NoteService) SetFavorite(ctx context.Context, userID, noteID string, favorite *bool) (*models.FavoriteResponse, error) {
	note, err := s.get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if favorite == nil {
		s.logger.Warn("invalid favorite value", zap.String("user_id", userID), zap.String("note_id", noteID))
		return nil, errors.NewValidationError("favorite", "Invalid value for favorite, must be a boolean")
	}

	note.Favorite = *favorite
	if err := s.save(ctx, note); err != nil {
		return nil, err
	}
	return &models.FavoriteResponse{ID: note.ID, Favorite: note.Favorite}, nil
}

// Delete removes a note
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	err := s.store.DeleteNote(ctx, userID, noteID)
	if errors.Is(err, errors.ErrNoteNotFound) {
		s.logger.Warn("delete of unknown note", zap.String("user_id", userID), zap.String("note_id", noteID))
		return err
	}
	if err != nil {
		s.logger.Error("failed to delete note", zap.String("user_id", userID), zap.Error(err))
		return errors.ErrInternal
	}

	s.logger.Info("note deleted", zap.String("user_id", userID), zap.String("note_id", noteID))
	return nil
}

func (s *NoteService) get(ctx context.Context, userID, noteID string) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, userID, noteID)
	if errors.Is(err, errors.ErrNoteNotFound) {
		s.logger.Warn("unknown note", zap.String("user_id", userID), zap.String("note_id", noteID))
		return nil, err
	}
	if err != nil {
		s.logger.Error("failed to load note", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrInternal
	}
	return note, nil
}

func (s *NoteService) save(ctx context.Context, note *models.Note) error {
	err := s.store.UpdateNote(ctx, note)
	if errors.Is(err, errors.ErrNoteNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("failed to update note", zap.String("note_id", note.ID), zap.Error(err))
		return errors.ErrInternal
	}
	return nil
}
