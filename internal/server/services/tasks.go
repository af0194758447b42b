package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/snapshots"
)

var ErrInvalidTasks = fmt.Errorf("%w: tasks must be a JSON array", common.ErrValidation)

var emptyDocument = json.RawMessage(`[]`)

// TaskService stores each user's task document as one opaque JSON array.
// The last accepted write wins.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     snapshots.Archive
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, archive snapshots.Archive, logger logging.Logger) *TaskService {
	if archive == nil {
		archive = snapshots.NopArchive{}
	}
	return &TaskService{db: db, repomanager: m, archive: archive, logger: logger.With("module", "tasks")}
}

// Get returns the stored document, or an empty array for a new user.
func (s *TaskService) Get(ctx context.Context, userID int64) (json.RawMessage, error) {
	doc, err := s.repomanager.Tasks(s.db).Get(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return emptyDocument, nil
	}
	if err != nil {
		return nil, err
	}
	if len(doc.Data) == 0 {
		return emptyDocument, nil
	}
	return doc.Data, nil
}

// Save overwrites the user's document. Anything but a JSON array is
// ErrInvalidTasks. A snapshot is archived afterwards; archive failures are
// only logged.
func (s *TaskService) Save(ctx context.Context, userID int64, data json.RawMessage) (json.RawMessage, error) {
	if !IsJSONArray(data) {
		return nil, ErrInvalidTasks
	}

	if err := s.repomanager.Tasks(s.db).Save(ctx, userID, data); err != nil {
		return nil, err
	}

	if key, err := s.archive.Put(ctx, userID, data); err != nil {
		s.logger.Warn(ctx, "snapshot failed", "user_id", userID, "error", err)
	} else if key != "" {
		s.logger.Debug(ctx, "snapshot stored", "user_id", userID, "key", key)
	}

	return data, nil
}

// IsJSONArray reports whether data is a well-formed JSON array.
func IsJSONArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
