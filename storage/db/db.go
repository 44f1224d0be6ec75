// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the high-level database interface for the
// storage app. It stores the runs of uploaded manifests and finds them
// again by their configuration.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
)

// DB is a high-level interface to a database for the storage
// app. It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertRun    *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS Runs (
	UploadID BIGINT UNSIGNED,
	Seq BIGINT UNSIGNED,
	RunID VARCHAR(255),
	Content BLOB,
	PRIMARY KEY (UploadID, Seq),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS RunLabels (
	UploadID BIGINT UNSIGNED,
	Seq BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(8192),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (UploadID, Seq) REFERENCES Runs(UploadID, Seq) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RunLabelsNameValue ON RunLabels(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "INSERT INTO Uploads() VALUES ()"
	if driverName == "sqlite3" {
		q = "INSERT INTO Uploads DEFAULT VALUES"
	}
	db.insertUpload, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(UploadID, Seq, RunID, Content) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// An Upload is a collection of runs that share an upload ID.
type Upload struct {
	// ID is the value of the "uploadid" label that is associated
	// with every run in this upload.
	ID string

	// id is the numeric value used as the primary key. ID is a
	// string for the public API; the underlying table actually
	// uses an integer key.
	id int64
	// seq is the index of the next run to insert.
	seq int64
	// db is the underlying database that this upload is going to.
	db *DB
}

// NewUpload returns an upload for storing new runs.
// All runs written to the Upload will have the same upload ID.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	return db.newUpload(ctx, db.insertUpload)
}

func (db *DB) newUpload(ctx context.Context, insert *sql.Stmt) (*Upload, error) {
	res, err := insert.ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Upload{
		ID: fmt.Sprint(i),
		id: i,
		db: db,
	}, nil
}

// withTx calls f in a transaction, which is committed if f succeeds
// and rolled back otherwise.
func (db *DB) withTx(ctx context.Context, f func(*sql.Tx) error) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	return f(tx)
}

// UploadIDLabel is the label holding the upload a run belongs to.
const UploadIDLabel = "uploadid"

// Labels returns the searchable labels of r: its configuration, by
// string value, and its identity fields.
func Labels(r *benchrun.Run) map[string]string {
	labels := map[string]string{
		"id":        r.ID,
		"outputDir": r.OutputDir,
		"testName":  r.TestName,
	}
	for k, v := range r.TestConfig {
		labels[k] = benchrun.ValueString(v)
	}
	return labels
}

// InsertRun inserts a single run in an existing upload.
func (u *Upload) InsertRun(ctx context.Context, r *benchrun.Run) error {
	return u.db.withTx(ctx, func(tx *sql.Tx) error {
		return u.insertRun(ctx, tx, r)
	})
}

func (u *Upload) insertRun(ctx context.Context, tx *sql.Tx, r *benchrun.Run) error {
	content, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "encoding run %s", r.ID)
	}
	if _, err := tx.StmtContext(ctx, u.db.insertRun).ExecContext(ctx, u.id, u.seq, r.ID, content); err != nil {
		return err
	}

	labels := Labels(r)
	labels[UploadIDLabel] = u.ID
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var args []interface{}
	for _, k := range keys {
		args = append(args, u.id, u.seq, k, labels[k])
	}
	query := "INSERT INTO RunLabels VALUES " + strings.Repeat("(?, ?, ?, ?), ", len(args)/4)
	query = strings.TrimSuffix(query, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	u.seq++
	return nil
}

// InsertManifest stores every run of m in a new upload. The upload
// and its runs are written in one transaction: if any run cannot be
// stored, nothing is.
func (db *DB) InsertManifest(ctx context.Context, m *benchrun.Manifest) (*Upload, error) {
	var u *Upload
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if u, err = db.newUpload(ctx, tx.StmtContext(ctx, db.insertUpload)); err != nil {
			return err
		}
		for i := range m.Runs {
			if err := u.insertRun(ctx, tx, &m.Runs[i]); err != nil {
				return errors.Wrapf(err, "inserting run %s", m.Runs[i].ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// splitQueryWords splits q into words using shell syntax (whitespace
// can be escaped with double quotes or with a backslash).
func splitQueryWords(q string) []string {
	var words []string
	word := make([]byte, len(q))
	w := 0
	quoting := false
	for r := 0; r < len(q); r++ {
		switch c := q[r]; {
		case c == '"' && quoting:
			quoting = false
		case quoting:
			if c == '\\' {
				r++
			}
			if r < len(q) {
				word[w] = q[r]
				w++
			}
		case c == '"':
			quoting = true
		case c == ' ', c == '\t':
			if w > 0 {
				words = append(words, string(word[:w]))
			}
			w = 0
		case c == '\\':
			r++
			fallthrough
		default:
			if r < len(q) {
				word[w] = q[r]
				w++
			}
		}
	}
	if w > 0 {
		words = append(words, string(word[:w]))
	}
	return words
}

// Runs returns the runs matching q, in upload order. q is a
// space-separated list of key:value words; a run matches if it has
// every label. The empty query matches every run.
func (db *DB) Runs(ctx context.Context, q string) ([]benchrun.Run, error) {
	var where []string
	var args []interface{}
	for _, word := range splitQueryWords(q) {
		i := strings.Index(word, ":")
		if i < 0 {
			return nil, errors.Errorf("query part %q is missing ':'", word)
		}
		where = append(where, "EXISTS (SELECT 1 FROM RunLabels l WHERE l.UploadID = r.UploadID AND l.Seq = r.Seq AND l.Name = ? AND l.Value = ?)")
		args = append(args, word[:i], word[i+1:])
	}
	query := "SELECT r.Content FROM Runs r"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.UploadID, r.Seq"

	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []benchrun.Run
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		var r benchrun.Run
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, errors.Wrap(err, "decoding stored run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Catalog returns a catalog of the runs matching q.
func (db *DB) Catalog(ctx context.Context, q string) (*benchrun.Catalog, error) {
	runs, err := db.Runs(ctx, q)
	if err != nil {
		return nil, err
	}
	return benchrun.NewCatalog(runs), nil
}

// UploadInfo summarizes one upload.
type UploadInfo struct {
	UploadID string `json:"uploadid"`
	Count    int    `json:"count"`
}

// ListUploads returns the most recent uploads, newest first, with the
// number of runs in each.
func (db *DB) ListUploads(ctx context.Context, limit int) ([]UploadInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT u.UploadID, COUNT(r.Seq) FROM Uploads u LEFT JOIN Runs r ON r.UploadID = u.UploadID
GROUP BY u.UploadID ORDER BY u.UploadID DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UploadInfo
	for rows.Next() {
		var id int64
		var info UploadInfo
		if err := rows.Scan(&id, &info.Count); err != nil {
			return nil, err
		}
		info.UploadID = fmt.Sprint(id)
		out = append(out, info)
	}
	return out, rows.Err()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
