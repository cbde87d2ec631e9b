package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-discovery/internal/model"
)

// RatingRepo persists ratings and keeps events.average_rating equal
// to the mean of the event's current ratings.  The two writes always
// happen inside one transaction so concurrent submitters can never
// observe or produce a stale aggregate.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a new RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

const ratingColumns = `id, event_id, user_id, rating, review_text,
	reviewer_name, reviewer_avatar, created_at, updated_at`

// Submit runs the whole read-merge-write sequence as one atomic unit:
// lock the event row, upsert the caller's rating (the UNIQUE
// (event_id, user_id) key turns a resubmission into a replace that
// keeps created_at), recompute the average over the event's ratings
// and write it back.  It returns the stored rating and the new
// average.  A deadlock or lock-wait abort surfaces as ErrTxConflict
// so the service layer can retry the sequence from the start.
func (r *RatingRepo) Submit(ctx context.Context, eventID uint64, in model.Rating) (model.Rating, float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Rating{}, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The row lock serializes concurrent submissions for one event;
	// submissions for different events never contend.
	var id uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM events WHERE id=? FOR UPDATE", eventID).Scan(&id)
	if err == sql.ErrNoRows {
		return model.Rating{}, 0, ErrEventNotFound
	}
	if err != nil {
		return model.Rating{}, 0, classify(err)
	}

	const upsert = `INSERT INTO ratings
		(event_id, user_id, rating, review_text, reviewer_name, reviewer_avatar)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			rating=VALUES(rating),
			review_text=VALUES(review_text),
			reviewer_name=VALUES(reviewer_name),
			reviewer_avatar=VALUES(reviewer_avatar),
			updated_at=NOW()`
	if _, err := tx.ExecContext(ctx, upsert,
		eventID, in.UserID, in.Rating, nullStr(in.ReviewText),
		in.ReviewerName, nullStr(in.ReviewerAvatar)); err != nil {
		return model.Rating{}, 0, classify(err)
	}

	var avg float64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE event_id=?", eventID).Scan(&avg); err != nil {
		return model.Rating{}, 0, classify(err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE events SET average_rating=? WHERE id=?", avg, eventID); err != nil {
		return model.Rating{}, 0, classify(err)
	}

	stored, err := scanRating(tx.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE event_id=? AND user_id=? LIMIT 1`,
		eventID, in.UserID))
	if err != nil {
		return model.Rating{}, 0, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Rating{}, 0, classify(err)
	}
	committed = true
	return stored, avg, nil
}

// ListByEvent returns all ratings for one event, most recently
// updated first.
func (r *RatingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE event_id=? ORDER BY updated_at DESC, id DESC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Rating{}
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func scanRating(row interface{ Scan(...any) error }) (model.Rating, error) {
	var (
		rt     model.Rating
		review sql.NullString
		avatar sql.NullString
	)
	err := row.Scan(&rt.ID, &rt.EventID, &rt.UserID, &rt.Rating,
		&review, &rt.ReviewerName, &avatar, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return model.Rating{}, err
	}
	rt.ReviewText = review.String
	rt.ReviewerAvatar = avatar.String
	return rt, nil
}

// classify maps MySQL serialization failures onto ErrTxConflict.
// 1213 = deadlock, 1205 = lock wait timeout; both mean the
// transaction was aborted and may be retried.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "1213") || strings.Contains(msg, "1205") {
		return ErrTxConflict
	}
	return err
}
