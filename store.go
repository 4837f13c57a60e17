package sigsite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database holding the frequent-authors dataset.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the site keep reading while a refresh rewrites the dataset.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS papers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dblp_key TEXT NOT NULL,
    year INTEGER NOT NULL,
    title TEXT NOT NULL,
    venue TEXT NOT NULL,
    pages TEXT NOT NULL,
    doi TEXT NOT NULL,
    url TEXT NOT NULL,
    type TEXT NOT NULL,
    authors TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS papers_year ON papers(year);
CREATE TABLE IF NOT EXISTS authors (
    id TEXT PRIMARY KEY,
    pid TEXT NOT NULL,
    name TEXT NOT NULL,
    aliases TEXT NOT NULL,
    pubs INTEGER NOT NULL,
    first_auth INTEGER NOT NULL,
    last_auth INTEGER NOT NULL,
    solo INTEGER NOT NULL,
    coauthors INTEGER NOT NULL,
    avg_team REAL NOT NULL,
    active_years INTEGER NOT NULL,
    first_year INTEGER NOT NULL,
    last_year INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS author_links (
    author_id TEXT PRIMARY KEY,
    dblp TEXT NOT NULL,
    homepage TEXT NOT NULL,
    scholar TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// ReplaceDataset swaps the stored dataset for ds in one transaction.
// Author links are kept; they are keyed by author id and survive refreshes.
func (s *Store) ReplaceDataset(ds dblp.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM papers`, `DELETE FROM authors`} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}

	paperStmt, err := tx.Prepare(`INSERT INTO papers (dblp_key, year, title, venue, pages, doi, url, type, authors) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer paperStmt.Close()
	for _, r := range ds.Records {
		authors, err := json.Marshal(r.Authors)
		if err != nil {
			return err
		}
		if _, err := paperStmt.Exec(r.Key, r.Year, r.Title, r.Venue, r.Pages, r.DOI, r.URL, r.Type, string(authors)); err != nil {
			return fmt.Errorf("insert paper %q: %w", r.Key, err)
		}
	}

	authorStmt, err := tx.Prepare(`INSERT INTO authors (id, pid, name, aliases, pubs, first_auth, last_auth, solo, coauthors, avg_team, active_years, first_year, last_year) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer authorStmt.Close()
	for _, a := range ds.Authors {
		aliases, err := json.Marshal(a.Aliases)
		if err != nil {
			return err
		}
		if _, err := authorStmt.Exec(a.ID, a.PID, a.Name, string(aliases), a.Pubs, a.FirstAuth, a.LastAuth,
			a.Solo, a.Coauthors, a.AvgTeam, a.ActiveYears, a.FirstYear, a.LastYear); err != nil {
			return fmt.Errorf("insert author %q: %w", a.ID, err)
		}
	}

	notes, err := json.Marshal(ds.Notes)
	if err != nil {
		return err
	}
	meta := map[string]string{
		"fetched_at": strconv.FormatInt(ds.FetchedAt, 10),
		"start_year": strconv.Itoa(ds.StartYear),
		"end_year":   strconv.Itoa(ds.EndYear),
		"notes":      string(notes),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveAuthorLinks replaces all stored author links.
func (s *Store) SaveAuthorLinks(links csrankings.Links) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM author_links`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO author_links (author_id, dblp, homepage, scholar) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for pid, l := range links.ByPID {
		if _, err := stmt.Exec("pid:"+pid, l.DBLP, l.Homepage, l.GoogleScholar); err != nil {
			return err
		}
	}
	for name, l := range links.ByName {
		if _, err := stmt.Exec("name:"+name, l.DBLP, l.Homepage, l.GoogleScholar); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const authorColumns = `a.id, a.pid, a.name, a.aliases, a.pubs, a.first_auth, a.last_auth, a.solo, a.coauthors,
	a.avg_team, a.active_years, a.first_year, a.last_year,
	COALESCE(l.dblp, ''), COALESCE(l.homepage, ''), COALESCE(l.scholar, '')`

// ListAuthors returns the authors matching q in q's order.
func (s *Store) ListAuthors(q AuthorQuery) ([]Author, error) {
	q = q.normalize()
	query := `SELECT ` + authorColumns + `
FROM authors a LEFT JOIN author_links l ON l.author_id = a.id
WHERE a.pubs >= ?
ORDER BY ` + sortClauses[q.Sort]
	args := []any{q.MinPubs}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// GetAuthor returns one author by dataset id.
func (s *Store) GetAuthor(id string) (Author, error) {
	row := s.db.QueryRow(`SELECT `+authorColumns+`
FROM authors a LEFT JOIN author_links l ON l.author_id = a.id
WHERE a.id = ?`, id)
	return scanAuthor(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuthor(r scanner) (Author, error) {
	var a Author
	var aliases string
	if err := r.Scan(&a.ID, &a.PID, &a.Name, &aliases, &a.Pubs, &a.FirstAuth, &a.LastAuth, &a.Solo,
		&a.Coauthors, &a.AvgTeam, &a.ActiveYears, &a.FirstYear, &a.LastYear,
		&a.Links.DBLP, &a.Links.Homepage, &a.Links.GoogleScholar); err != nil {
		return Author{}, err
	}
	if err := json.Unmarshal([]byte(aliases), &a.Aliases); err != nil {
		return Author{}, fmt.Errorf("decode aliases of %q: %w", a.ID, err)
	}
	return a, nil
}

// LatestPapers returns up to n papers from the most recent years.
func (s *Store) LatestPapers(n int) ([]dblp.Record, error) {
	rows, err := s.db.Query(`SELECT dblp_key, year, title, venue, pages, doi, url, type, authors FROM papers ORDER BY year DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []dblp.Record
	for rows.Next() {
		var r dblp.Record
		var authors string
		if err := rows.Scan(&r.Key, &r.Year, &r.Title, &r.Venue, &r.Pages, &r.DOI, &r.URL, &r.Type, &authors); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(authors), &r.Authors); err != nil {
			return nil, fmt.Errorf("decode authors of %q: %w", r.Key, err)
		}
		for _, a := range r.Authors {
			r.AuthorIDs = append(r.AuthorIDs, a.ID)
		}
		papers = append(papers, r)
	}
	return papers, rows.Err()
}

// DatasetInfo summarizes the stored dataset. It is Empty before the first
// refresh.
func (s *Store) DatasetInfo() (DatasetInfo, error) {
	rows, err := s.db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return DatasetInfo{}, err
	}
	defer rows.Close()

	var info DatasetInfo
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return DatasetInfo{}, err
		}
		switch k {
		case "fetched_at":
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return DatasetInfo{}, fmt.Errorf("meta fetched_at: %w", err)
			}
			info.FetchedAt = time.UnixMilli(ms).UTC()
		case "start_year":
			info.StartYear, _ = strconv.Atoi(v)
		case "end_year":
			info.EndYear, _ = strconv.Atoi(v)
		case "notes":
			if err := json.NewDecoder(strings.NewReader(v)).Decode(&info.Notes); err != nil {
				return DatasetInfo{}, fmt.Errorf("meta notes: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return DatasetInfo{}, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&info.Papers); err != nil {
		return DatasetInfo{}, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM authors`).Scan(&info.Authors); err != nil {
		return DatasetInfo{}, err
	}
	return info, nil
}
