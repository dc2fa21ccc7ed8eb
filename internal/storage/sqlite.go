package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/task"
)

// SQLiteFile is the database file name inside the base directory. WAL side
// files share it as a prefix.
const SQLiteFile = "gantry.db"

const taskColumns = `id, name, project_id, status, priority, progress, is_milestone,
	start_date, end_date, baseline_start_date, baseline_end_date, description, created_at`

// SQLiteStore keeps tasks in a single SQLite database file.
type SQLiteStore struct {
	basePath string
	db       *sql.DB
}

// NewSQLiteStore creates a SQLiteStore rooted at basePath. The database is
// opened lazily.
func NewSQLiteStore(basePath string) *SQLiteStore {
	return &SQLiteStore{basePath: basePath}
}

// BasePath returns the directory holding the database.
func (s *SQLiteStore) BasePath() string {
	return s.basePath
}

func (s *SQLiteStore) dbPath() string {
	return filepath.Join(s.basePath, SQLiteFile)
}

// IsInitialized checks if the database file exists.
func (s *SQLiteStore) IsInitialized() bool {
	_, err := os.Stat(s.dbPath())
	return err == nil
}

// Init creates the database and runs migrations.
func (s *SQLiteStore) Init(force bool) error {
	if s.IsInitialized() && !force {
		return gantryerrors.AlreadyInitializedError{}
	}
	//nolint:gosec // G301: 0755 is appropriate for user-accessible task directory
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	_, err := s.conn()
	return err
}

// Close closes the database connection if it was opened.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database, opening and migrating it on first use.
func (s *SQLiteStore) conn() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if _, err := os.Stat(s.basePath); err != nil {
		return nil, gantryerrors.NotInitializedError{}
	}

	dsn := "file:" + s.dbPath() + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.db = db
	return db, nil
}

// ready returns the connection, failing when the store was never initialized.
func (s *SQLiteStore) ready() (*sql.DB, error) {
	if !s.IsInitialized() {
		return nil, gantryerrors.NotInitializedError{}
	}
	return s.conn()
}

// migrate runs idempotent schema migrations.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'todo',
		priority TEXT NOT NULL DEFAULT 'medium',
		progress INTEGER NOT NULL DEFAULT 0,
		is_milestone INTEGER NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		baseline_start_date TEXT NOT NULL DEFAULT '',
		baseline_end_date TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_dependencies (
		task_id TEXT NOT NULL,
		depends_on_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (task_id, depends_on_id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_task_dependencies_depends_on ON task_dependencies(depends_on_id);
	`

	_, err := db.Exec(schema)
	return err
}

// Save inserts or replaces a task and its dependency list.
func (s *SQLiteStore) Save(t *task.Task) error {
	db, err := s.ready()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			project_id = excluded.project_id,
			status = excluded.status,
			priority = excluded.priority,
			progress = excluded.progress,
			is_milestone = excluded.is_milestone,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			baseline_start_date = excluded.baseline_start_date,
			baseline_end_date = excluded.baseline_end_date,
			description = excluded.description`,
		t.ID, t.Title, t.ProjectID, string(t.Status), string(t.Priority), t.Progress, t.IsMilestone,
		t.StartDate, t.EndDate, t.BaselineStartDate, t.BaselineEndDate, t.Description,
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert task %s: %w", t.ID, err)
	}

	if _, err = tx.Exec(`DELETE FROM task_dependencies WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear dependencies of %s: %w", t.ID, err)
	}
	for i, depID := range t.DependsOn {
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_id, position) VALUES (?, ?, ?)`,
			t.ID, depID, i,
		)
		if err != nil {
			return fmt.Errorf("insert dependency %s -> %s: %w", t.ID, depID, err)
		}
	}

	return tx.Commit()
}

// Load reads one task and its dependencies.
func (s *SQLiteStore) Load(id string) (*task.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gantryerrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", id, err)
	}

	rows, err := db.Query(
		`SELECT depends_on_id FROM task_dependencies WHERE task_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load dependencies of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var depID string
		if err = rows.Scan(&depID); err != nil {
			return nil, err
		}
		t.DependsOn = append(t.DependsOn, depID)
	}
	return t, rows.Err()
}

// Delete removes a task and the dependency edges it owns.
func (s *SQLiteStore) Delete(id string) error {
	db, err := s.ready()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gantryerrors.TaskNotFoundError{ID: id}
	}
	if _, err = tx.Exec(`DELETE FROM task_dependencies WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete dependencies of %s: %w", id, err)
	}
	return tx.Commit()
}

// List returns all tasks matching filter, sorted with SortTasks.
func (s *SQLiteStore) List(filter Filter) ([]*task.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT ` + taskColumns + ` FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*task.Task)
	var all []*task.Task
	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		byID[t.ID] = t
		all = append(all, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	depRows, err := db.Query(
		`SELECT task_id, depends_on_id FROM task_dependencies ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	defer depRows.Close()
	for depRows.Next() {
		var taskID, depID string
		if err = depRows.Scan(&taskID, &depID); err != nil {
			return nil, err
		}
		if t, ok := byID[taskID]; ok {
			t.DependsOn = append(t.DependsOn, depID)
		}
	}
	if err = depRows.Err(); err != nil {
		return nil, err
	}

	var tasks []*task.Task
	for _, t := range all {
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	SortTasks(tasks)
	return tasks, nil
}

// RemoveDependency removes a dependency from all tasks that reference it.
func (s *SQLiteStore) RemoveDependency(depID string) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM task_dependencies WHERE depends_on_id = ?`, depID)
	return err
}

// CreateTask creates a new task with generated ID.
func (s *SQLiteStore) CreateTask(nt NewTask) (*task.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	existsFn := func(id string) bool {
		var n int
		scanErr := db.QueryRow(`SELECT COUNT(1) FROM tasks WHERE id = ?`, id).Scan(&n)
		return scanErr != nil || n > 0
	}
	t := buildTask(nt, existsFn)

	if err = s.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*task.Task, error) {
	var (
		t                task.Task
		status, priority string
		createdAt        string
	)
	err := r.Scan(
		&t.ID, &t.Title, &t.ProjectID, &status, &priority, &t.Progress, &t.IsMilestone,
		&t.StartDate, &t.EndDate, &t.BaselineStartDate, &t.BaselineEndDate, &t.Description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	return &t, nil
}
