package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder stores conversion attempts in a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// OpenSQLite connects to the database at path and runs schema migrations.
func OpenSQLite(path string) (*SQLiteRecorder, error) {
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteRecorder{db: conn}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			chat_id INTEGER NOT NULL,
			image_count INTEGER NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error_details TEXT NOT NULL DEFAULT '',
			artifact_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			finished_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_user ON conversions(user_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func (r *SQLiteRecorder) Start(ctx context.Context, conv models.Conversion) (string, error) {
	if conv.Status == "" {
		conv.Status = models.StatusAssembling
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO conversions (user_id, chat_id, image_count, status, artifact_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conv.UserID, conv.ChatID, conv.ImageCount, conv.Status, conv.ArtifactName, conv.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("conversion id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRecorder) Finish(ctx context.Context, id string, pageCount int, errDetails string) error {
	if id == "" {
		return nil
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid conversion id %q: %w", id, err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE conversions SET status = ?, page_count = ?, error_details = ?, finished_at = ? WHERE id = ?`,
		finalStatus(errDetails), pageCount, errDetails, time.Now().UTC(), rowID,
	)
	if err != nil {
		return fmt.Errorf("update conversion %s: %w", id, err)
	}
	return nil
}

// ListByUser returns a user's attempts, newest first.
func (r *SQLiteRecorder) ListByUser(ctx context.Context, userID int64) ([]models.Conversion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, chat_id, image_count, page_count, status, error_details, artifact_name, created_at, finished_at
		 FROM conversions WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var out []models.Conversion
	for rows.Next() {
		var (
			c        models.Conversion
			finished sql.NullTime
		)
		if err := rows.Scan(&c.UserID, &c.ChatID, &c.ImageCount, &c.PageCount, &c.Status,
			&c.ErrorDetails, &c.ArtifactName, &c.CreatedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		if finished.Valid {
			c.FinishedAt = finished.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
