package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Table names for saved statistics.
const (
	repositoriesTable = "repostat_repositories"
	contributorsTable = "repostat_contributors"
	commitsTable      = "repostat_commits"
)

// statsTables lists the tables in creation order.
var statsTables = []string{repositoriesTable, contributorsTable, commitsTable}

// ErrRepositoryNotFound is returned when a saved analysis ID does not exist.
var ErrRepositoryNotFound = errors.New("repository stats not found")

// StatsStoreImpl implements the StatsStore interface.
type StatsStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.StatsStore = &StatsStoreImpl{} // Compile-time check

// NewStatsStore creates a new StatsStore with the specified backend.
func NewStatsStore(backend schema.DatabaseBackend, connStr string) (contract.StatsStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &StatsStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createStatsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create statistics tables: %w", err)
	}

	return &StatsStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// openDatabase opens a connection pool for backend without verifying it.
func openDatabase(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetStoreDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		dsn, err := mysqlDSN(connStr)
		if err != nil {
			return nil, "", fmt.Errorf("invalid MySQL connection string: %w. Check format: user:password@tcp(host:port)/dbname", err)
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... port=... user=... dbname=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// mysqlDSN forces time parsing in UTC so DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// createStatsTables applies every embedded up migration for backend. The statements
// use IF NOT EXISTS, so running them against an existing schema is a no-op.
func createStatsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	statements, err := upMigrations(backend)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to apply %s: %w", stmt.name, err)
		}
	}
	return nil
}

// quoteTableName quotes an identifier for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default:
		return `"` + name + `"`
	}
}

// placeholders returns n bind parameters for the backend, e.g. "?, ?" or "$1, $2".
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// SaveStats writes the repository row, one row per contributor and one row per commit
// in a single transaction, and returns the new repository ID.
func (s *StatsStoreImpl) SaveStats(stats *schema.RepositoryStats) (int64, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repoID, err := s.insertRepository(tx, stats)
	if err != nil {
		return 0, err
	}
	if err := s.insertContributors(tx, repoID, stats); err != nil {
		return 0, err
	}
	if err := s.insertCommits(tx, repoID, stats.Commits); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return repoID, nil
}

func (s *StatsStoreImpl) insertRepository(tx *sql.Tx, stats *schema.RepositoryStats) (int64, error) {
	columns := "path, total_commits, total_lines_added, total_lines_removed, first_commit_date, last_commit_date, created_at"
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(repositoriesTable, s.backend), columns, placeholders(s.backend, 7))
	args := []any{
		stats.RepoPath, stats.TotalCommits, stats.TotalLinesAdded, stats.TotalLinesRemoved,
		s.formatOptionalTime(stats.FirstCommitDate), s.formatOptionalTime(stats.LastCommitDate),
		formatTime(time.Now().UTC(), s.backend),
	}

	var repoID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		if err := tx.QueryRow(query+" RETURNING id", args...).Scan(&repoID); err != nil {
			return 0, fmt.Errorf("failed to insert repository: %w", err)
		}
	default: // SQLite and MySQL
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert repository: %w", err)
		}
		if repoID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read repository id: %w", err)
		}
	}
	return repoID, nil
}

func (s *StatsStoreImpl) insertContributors(tx *sql.Tx, repoID int64, stats *schema.RepositoryStats) error {
	query := fmt.Sprintf(`INSERT INTO %s (repository_id, name, email, commits, lines_added, lines_removed,
		first_commit_date, last_commit_date) VALUES (%s)`,
		quoteTableName(contributorsTable, s.backend), placeholders(s.backend, 8))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare contributor insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	emails := stats.FirstEmails()
	for _, c := range stats.TopContributors(0) {
		_, err := stmt.Exec(repoID, c.Name, emails[c.Name], c.Commits, c.LinesAdded, c.LinesRemoved,
			formatTime(c.FirstCommit, s.backend), formatTime(c.LastCommit, s.backend))
		if err != nil {
			return fmt.Errorf("failed to insert contributor %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *StatsStoreImpl) insertCommits(tx *sql.Tx, repoID int64, commits []schema.CommitRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (repository_id, hash, author, email, commit_date, message,
		lines_added, lines_removed, files_changed) VALUES (%s)`,
		quoteTableName(commitsTable, s.backend), placeholders(s.backend, 9))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare commit insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range commits {
		_, err := stmt.Exec(repoID, c.Hash, c.Author, c.Email, formatTime(c.Date, s.backend), c.Message,
			c.LinesAdded, c.LinesRemoved, c.FilesChanged)
		if err != nil {
			return fmt.Errorf("failed to insert commit %s: %w", c.Hash, err)
		}
	}
	return nil
}

// GetRepositoryStats reads a saved analysis back into a RepositoryStats.
// Commits are ordered by date, newest first.
func (s *StatsStoreImpl) GetRepositoryStats(repoID int64) (*schema.RepositoryStats, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, ErrRepositoryNotFound
	}

	query := fmt.Sprintf(`SELECT id, path, total_commits, total_lines_added, total_lines_removed,
		first_commit_date, last_commit_date, created_at FROM %s WHERE id = %s`,
		quoteTableName(repositoriesTable, s.backend), placeholders(s.backend, 1))
	rec, err := s.scanRepository(s.db.QueryRow(query, repoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRepositoryNotFound, repoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load repository %d: %w", repoID, err)
	}

	stats := schema.NewRepositoryStats(rec.Path)
	stats.TotalCommits = rec.TotalCommits
	stats.TotalLinesAdded = rec.TotalLinesAdded
	stats.TotalLinesRemoved = rec.TotalLinesRemoved
	stats.FirstCommitDate = rec.FirstCommitDate
	stats.LastCommitDate = rec.LastCommitDate

	contributors, err := s.queryContributors("WHERE repository_id = "+placeholders(s.backend, 1), repoID)
	if err != nil {
		return nil, err
	}
	for _, c := range contributors {
		rollup := c.ContributorRollup
		stats.Contributors[c.Name] = &rollup
	}

	commits, err := s.queryCommits("WHERE repository_id = "+placeholders(s.backend, 1)+" ORDER BY commit_date DESC, id ASC", repoID)
	if err != nil {
		return nil, err
	}
	for _, c := range commits {
		stats.Commits = append(stats.Commits, c.CommitRecord)
	}
	return stats, nil
}

// ListRepositories returns every saved analysis, newest first.
func (s *StatsStoreImpl) ListRepositories() ([]schema.RepositoryRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT id, path, total_commits, total_lines_added, total_lines_removed,
		first_commit_date, last_commit_date, created_at FROM %s ORDER BY id DESC`,
		quoteTableName(repositoriesTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RepositoryRecord
	for rows.Next() {
		rec, err := s.scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repositories: %w", err)
	}
	return results, nil
}

// GetAllContributors retrieves every contributor row from the store.
func (s *StatsStoreImpl) GetAllContributors() ([]schema.ContributorRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	return s.queryContributors("ORDER BY repository_id, name")
}

// GetAllCommits retrieves every commit row from the store.
func (s *StatsStoreImpl) GetAllCommits() ([]schema.StoredCommit, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	return s.queryCommits("ORDER BY repository_id, commit_date DESC, id ASC")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *StatsStoreImpl) scanRepository(row rowScanner) (schema.RepositoryRecord, error) {
	var rec schema.RepositoryRecord
	first, last, created := s.newTimeDest(), s.newTimeDest(), s.newTimeDest()
	if err := row.Scan(&rec.ID, &rec.Path, &rec.TotalCommits, &rec.TotalLinesAdded, &rec.TotalLinesRemoved,
		first.dest(), last.dest(), created.dest()); err != nil {
		return rec, err
	}
	var err error
	if rec.FirstCommitDate, err = first.optional(); err != nil {
		return rec, err
	}
	if rec.LastCommitDate, err = last.optional(); err != nil {
		return rec, err
	}
	if rec.CreatedAt, err = created.required(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *StatsStoreImpl) queryContributors(clause string, args ...any) ([]schema.ContributorRecord, error) {
	query := fmt.Sprintf(`SELECT repository_id, name, email, commits, lines_added, lines_removed,
		first_commit_date, last_commit_date FROM %s %s`, quoteTableName(contributorsTable, s.backend), clause)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ContributorRecord
	for rows.Next() {
		var rec schema.ContributorRecord
		first, last := s.newTimeDest(), s.newTimeDest()
		if err := rows.Scan(&rec.RepositoryID, &rec.Name, &rec.Email, &rec.Commits, &rec.LinesAdded,
			&rec.LinesRemoved, first.dest(), last.dest()); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		if rec.FirstCommit, err = first.required(); err != nil {
			return nil, err
		}
		if rec.LastCommit, err = last.required(); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributors: %w", err)
	}
	return results, nil
}

func (s *StatsStoreImpl) queryCommits(clause string, args ...any) ([]schema.StoredCommit, error) {
	query := fmt.Sprintf(`SELECT repository_id, hash, author, email, commit_date, message,
		lines_added, lines_removed, files_changed FROM %s %s`, quoteTableName(commitsTable, s.backend), clause)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StoredCommit
	for rows.Next() {
		var rec schema.StoredCommit
		date := s.newTimeDest()
		if err := rows.Scan(&rec.RepositoryID, &rec.Hash, &rec.Author, &rec.Email, date.dest(), &rec.Message,
			&rec.LinesAdded, &rec.LinesRemoved, &rec.FilesChanged); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		if rec.Date, err = date.required(); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commits: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (s *StatsStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the statistics store.
func (s *StatsStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(repositoriesTable, s.backend))
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalRepositories); err != nil {
		return status, fmt.Errorf("failed to get total repositories: %w", err)
	}

	if status.TotalRepositories > 0 {
		lastQuery := fmt.Sprintf("SELECT id, created_at FROM %s ORDER BY id DESC LIMIT 1", quoteTableName(repositoriesTable, s.backend))
		created := s.newTimeDest()
		if err := s.db.QueryRow(lastQuery).Scan(&status.LastRepositoryID, created.dest()); err != nil {
			return status, fmt.Errorf("failed to get last repository info: %w", err)
		}
		lastCreated, err := created.required()
		if err != nil {
			return status, fmt.Errorf("failed to parse last created time: %w", err)
		}
		status.LastCreatedAt = lastCreated
	}

	// Get table sizes
	for _, table := range statsTables {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		var count int64
		if err := s.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// sqliteTimeLayout has a fixed width so text columns sort chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeLayout)
	default:
		return t.UTC()
	}
}

func (s *StatsStoreImpl) formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t, s.backend)
}

// timeDest scans a timestamp column. SQLite stores text, the others native times.
type timeDest struct {
	sqlite bool
	text   sql.NullString
	native sql.NullTime
}

func (s *StatsStoreImpl) newTimeDest() *timeDest {
	return &timeDest{sqlite: s.backend == schema.SQLiteBackend}
}

func (d *timeDest) dest() any {
	if d.sqlite {
		return &d.text
	}
	return &d.native
}

func (d *timeDest) optional() (*time.Time, error) {
	if d.sqlite {
		if !d.text.Valid {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339Nano, d.text.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time %q: %w", d.text.String, err)
		}
		t = t.UTC()
		return &t, nil
	}
	if !d.native.Valid {
		return nil, nil
	}
	t := d.native.Time.UTC()
	return &t, nil
}

func (d *timeDest) required() (time.Time, error) {
	t, err := d.optional()
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, errors.New("unexpected NULL timestamp")
	}
	return *t, nil
}
