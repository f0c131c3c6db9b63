package textrules

import (
	"context"
	"database/sql"
	"fmt"
)

// ruleTable describes one from → to replacement table.
type ruleTable struct {
	name string
	from string
	to   string
}

var (
	letterTable = ruleTable{name: "text_letter_rules", from: "from_char", to: "to_char"}
	wordTable   = ruleTable{name: "text_word_rules", from: "from_word", to: "to_word"}
)

func (t ruleTable) createSQL() string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT NOT NULL)",
		t.name, t.from, t.to,
	)
}

func (t ruleTable) list(ctx context.Context, db *sql.DB) ([][2]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s, %s FROM %s ORDER BY %s", t.from, t.to, t.name, t.from,
	))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var pair [2]string
		if err := rows.Scan(&pair[0], &pair[1]); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, pair)
	}
	return out, rows.Err()
}

func (t ruleTable) upsert(ctx context.Context, db *sql.DB, from, to string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s",
		t.name, t.from, t.to, t.from, t.to, t.to,
	), from, to)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", t.name, err)
	}
	return nil
}

func (t ruleTable) remove(ctx context.Context, db *sql.DB, from string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.name, t.from), from)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

// pgRepo keeps rules in Postgres so every replica shares them.
type pgRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

// EnsureSchema creates the rule tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range []ruleTable{letterTable, wordTable} {
		if _, err := db.ExecContext(ctx, t.createSQL()); err != nil {
			return fmt.Errorf("create %s: %w", t.name, err)
		}
	}
	return nil
}

func (r *pgRepo) ListLetterRules(ctx context.Context) ([]LetterRule, error) {
	pairs, err := letterTable.list(ctx, r.db)
	if err != nil {
		return nil, err
	}
	out := make([]LetterRule, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, LetterRule{From: p[0], To: p[1]})
	}
	return out, nil
}

func (r *pgRepo) ListWordRules(ctx context.Context) ([]WordRule, error) {
	pairs, err := wordTable.list(ctx, r.db)
	if err != nil {
		return nil, err
	}
	out := make([]WordRule, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, WordRule{From: p[0], To: p[1]})
	}
	return out, nil
}

func (r *pgRepo) AddLetterRule(ctx context.Context, from, to string) error {
	return letterTable.upsert(ctx, r.db, from, to)
}

func (r *pgRepo) AddWordRule(ctx context.Context, from, to string) error {
	return wordTable.upsert(ctx, r.db, from, to)
}

func (r *pgRepo) DeleteLetterRule(ctx context.Context, from string) error {
	return letterTable.remove(ctx, r.db, from)
}

func (r *pgRepo) DeleteWordRule(ctx context.Context, from string) error {
	return wordTable.remove(ctx, r.db, from)
}
