package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"doc-qa/internal/qa"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			source TEXT,
			questions INT,
			status TEXT,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id UUID PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
			question_blocks TEXT[],
			answer_evaluation TEXT,
			question_evaluation TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS run_answers (
			run_id UUID REFERENCES runs(id) ON DELETE CASCADE,
			ord INT,
			question TEXT,
			answer TEXT,
			PRIMARY KEY (run_id, ord)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string, questions int) (Run, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(id, source, questions, status) VALUES($1,$2,$3,$4)`,
		id, source, questions, StatusProcessing)
	if err != nil {
		return Run{}, err
	}
	return Run{ID: id, Source: source, Questions: questions, Status: StatusProcessing, CreatedAt: time.Now()}, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	run := Run{ID: id}
	row := s.db.QueryRowContext(ctx, `SELECT source, questions, status, created_at FROM runs WHERE id=$1`, id)
	if err := row.Scan(&run.Source, &run.Questions, &run.Status, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, id uuid.UUID, status RunStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *PostgresStore) SaveResults(ctx context.Context, id uuid.UUID, res qa.Results) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO run_results(run_id, question_blocks, answer_evaluation, question_evaluation)
		VALUES($1,$2,$3,$4)
		ON CONFLICT (run_id) DO UPDATE SET
			question_blocks=excluded.question_blocks,
			answer_evaluation=excluded.answer_evaluation,
			question_evaluation=excluded.question_evaluation`,
		id, pq.Array(res.Questions), res.AnswerEvaluation, res.QuestionEvaluation)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_answers WHERE run_id=$1`, id); err != nil {
		return err
	}
	for i, a := range res.Answers {
		_, err := tx.ExecContext(ctx, `INSERT INTO run_answers(run_id, ord, question, answer) VALUES($1,$2,$3,$4)`,
			id, i, a.Question, a.Answer)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) GetResults(ctx context.Context, id uuid.UUID) (qa.Results, error) {
	var res qa.Results
	row := s.db.QueryRowContext(ctx, `
		SELECT question_blocks, answer_evaluation, question_evaluation
		FROM run_results WHERE run_id=$1`, id)
	if err := row.Scan(pq.Array(&res.Questions), &res.AnswerEvaluation, &res.QuestionEvaluation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return qa.Results{}, ErrRunNotFound
		}
		return qa.Results{}, fmt.Errorf("failed to get results for run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT question, answer FROM run_answers WHERE run_id=$1 ORDER BY ord`, id)
	if err != nil {
		return qa.Results{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var a qa.QAResult
		if err := rows.Scan(&a.Question, &a.Answer); err != nil {
			return qa.Results{}, err
		}
		res.Answers = append(res.Answers, a)
	}
	return res, rows.Err()
}
