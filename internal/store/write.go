package store

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/strikes/internal/querysql"
	"github.com/roach88/strikes/internal/strike"
)

// AddEntry appends one entry and returns it with its assigned id.
//
// rawTag is normalized here (and only here) via strike.NewTag; an empty tag
// records an untagged entry. The timestamp comes from the store clock.
//
// Returns strike.ErrInvalidInput for count <= 0 and strike.ErrWriteFailure
// when the INSERT fails, including lock contention past the busy timeout.
func (s *Store) AddEntry(ctx context.Context, count int64, rawTag string) (strike.Entry, error) {
	if err := strike.ValidateCount(count); err != nil {
		return strike.Entry{}, err
	}

	tag := strike.NewTag(rawTag)
	ts := s.now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO `+querysql.Table+`
		(strikes_count, entry_datetime, tag)
		VALUES (?, ?, ?)
	`,
		count,
		marshalTimestamp(ts),
		marshalTag(tag),
	)
	if err != nil {
		return strike.Entry{}, writeFailure(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return strike.Entry{}, strike.NewWriteFailure("add entry", "last insert id", err)
	}

	s.logger.Debug("entry written", "id", id, "count", count, "tag", tag.Label(), "timestamp", marshalTimestamp(ts))
	return strike.Entry{ID: id, Count: count, Tag: tag, Timestamp: ts}, nil
}

// writeFailure classifies an INSERT error.
func writeFailure(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return strike.NewWriteFailure("add entry", "database is locked by another process", err)
		case sqlite3.ErrFull:
			return strike.NewWriteFailure("add entry", "disk is full", err)
		case sqlite3.ErrReadonly:
			return strike.NewWriteFailure("add entry", "database is read-only", err)
		}
	}
	return strike.NewWriteFailure("add entry", "insert failed", err)
}
