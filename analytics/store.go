package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

// timeLayout is how timestamps are stored; lexical order equals time order.
const timeLayout = "2006-01-02 15:04:05"

// Store persists visits in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the analytics database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("analytics: open db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("analytics: enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("analytics: ensure schema: %w", err)
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("analytics: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			screen_size TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL,
			duration_sec INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS bot_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			path TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
		CREATE INDEX IF NOT EXISTS idx_bot_visits_timestamp ON bot_visits(timestamp);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is bumped with every entry in migrations.
const currentSchemaVersion = 2

var migrations = map[int]string{
	2: `ALTER TABLE visits ADD COLUMN title TEXT NOT NULL DEFAULT '';
	    CREATE INDEX IF NOT EXISTS idx_visits_title ON visits(title);`,
}

func (s *Store) migrate(ctx context.Context) error {
	verStr, err := s.GetSetting(ctx, "schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version := 1
	if verStr != "" {
		if version, err = strconv.Atoi(verStr); err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	for v := version + 1; v <= currentSchemaVersion; v++ {
		if _, err := s.db.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("apply migration %d: %w", v, err)
		}
		if err := s.SetSetting(ctx, "schema_version", strconv.Itoa(v)); err != nil {
			return err
		}
	}
	return nil
}

// GetSetting returns the value stored under key, or "" if unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveVisit inserts a page view.
func (s *Store) SaveVisit(ctx context.Context, v *Visit) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (visitor_id, session_id, ip_hash, browser, os, device, path, title, referrer, screen_size, timestamp, duration_sec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.SessionID, v.IPHash, v.Browser, v.OS, v.Device, v.Path, v.Title,
		v.Referrer, v.ScreenSize, v.Timestamp.UTC().Format(timeLayout), v.DurationSec)
	if err != nil {
		return err
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

// UpdateVisitDuration sets the duration of the latest visit of visitorID to path.
func (s *Store) UpdateVisitDuration(ctx context.Context, visitorID, path string, durationSec int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE visits SET duration_sec = ?
		 WHERE id = (SELECT id FROM visits WHERE visitor_id = ? AND path = ? ORDER BY timestamp DESC, id DESC LIMIT 1)`,
		durationSec, visitorID, path)
	return err
}

// SaveBotVisit inserts a crawler view.
func (s *Store) SaveBotVisit(ctx context.Context, bv *BotVisit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_visits (bot_name, ip_hash, user_agent, path, timestamp) VALUES (?, ?, ?, ?, ?)`,
		bv.BotName, bv.IPHash, bv.UserAgent, bv.Path, bv.Timestamp.UTC().Format(timeLayout))
	return err
}

// PageViews counts human views of pages titled title in [from, to).
func (s *Store) PageViews(ctx context.Context, title string, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visits WHERE title = ? AND timestamp >= ? AND timestamp < ?`,
		title, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics: page views: %w", err)
	}
	return n, nil
}

// GetStats aggregates visits in [from, to). Queries run concurrently.
func (s *Store) GetStats(ctx context.Context, from, to time.Time) (*Stats, error) {
	f, t := from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)
	stats := &Stats{Period: from.Format("2006-01-02") + " to " + to.Format("2006-01-02")}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*), COUNT(DISTINCT visitor_id), CAST(COALESCE(AVG(NULLIF(duration_sec, 0)), 0) AS INTEGER)
			 FROM visits WHERE timestamp >= ? AND timestamp < ?`, f, t).
			Scan(&stats.TotalViews, &stats.UniqueVisitors, &stats.AvgDuration)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bot_visits WHERE timestamp >= ? AND timestamp < ?`, f, t).
			Scan(&stats.BotVisits)
	})
	g.Go(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT path, MAX(title), COUNT(*) AS views FROM visits
			 WHERE timestamp >= ? AND timestamp < ?
			 GROUP BY path ORDER BY views DESC, path LIMIT 10`, f, t)
		if err != nil {
			return fmt.Errorf("top pages: %w", err)
		}
		defer rows.Close()
		pages := []PageStat{}
		for rows.Next() {
			var p PageStat
			if err := rows.Scan(&p.Path, &p.Title, &p.Views); err != nil {
				return err
			}
			pages = append(pages, p)
		}
		stats.TopPages = pages
		return rows.Err()
	})
	dims := []struct {
		table, column string
		dst           *[]DimensionStat
	}{
		{"visits", "browser", &stats.BrowserStats},
		{"visits", "os", &stats.OSStats},
		{"visits", "device", &stats.DeviceStats},
		{"visits", "referrer", &stats.ReferrerStats},
		{"bot_visits", "bot_name", &stats.TopBots},
	}
	for _, d := range dims {
		g.Go(func() error {
			res, err := s.dimension(ctx, d.table, d.column, f, t)
			if err != nil {
				return fmt.Errorf("%s stats: %w", d.column, err)
			}
			*d.dst = res
			return nil
		})
	}
	g.Go(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT substr(timestamp, 1, 10) AS day, COUNT(*) FROM visits
			 WHERE timestamp >= ? AND timestamp < ?
			 GROUP BY day ORDER BY day`, f, t)
		if err != nil {
			return fmt.Errorf("daily views: %w", err)
		}
		defer rows.Close()
		days := []DailyView{}
		for rows.Next() {
			var d DailyView
			if err := rows.Scan(&d.Date, &d.Views); err != nil {
				return err
			}
			days = append(days, d)
		}
		stats.DailyViews = days
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: stats: %w", err)
	}
	return stats, nil
}

// dimension groups table by column. Both names come from a fixed list.
func (s *Store) dimension(ctx context.Context, table, column, from, to string) ([]DimensionStat, error) {
	q := fmt.Sprintf(`SELECT %[2]s, COUNT(*) AS n FROM %[1]s
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY %[2]s ORDER BY n DESC, %[2]s LIMIT 10`, table, column)
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CleanupOldVisits deletes visits older than retentionDays.
func (s *Store) CleanupOldVisits(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("analytics: cleanup visits: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bot_visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("analytics: cleanup bot_visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs CleanupOldVisits every interval until the
// returned stop function is called.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, log Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOldVisits(context.Background(), retentionDays); err != nil {
					log.Errorf("%v", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}
