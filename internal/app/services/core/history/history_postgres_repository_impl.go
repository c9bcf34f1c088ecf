package history

import (
	"context"
	"database/sql"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/queries"
)

type orderHistoryPostgresRepository struct {
	DB *sql.DB
}

func NewOrderHistoryPostgresRepository(db *sql.DB) contracts.OrderHistoryRepository {
	return &orderHistoryPostgresRepository{
		DB: db,
	}
}

func (repo *orderHistoryPostgresRepository) HistoryFor(ctx context.Context, caseID string) (map[string]models.ChainHistory, error) {
	out := make(map[string]models.ChainHistory)

	rows, err := repo.DB.QueryContext(ctx, queries.GetChainsByCase, caseID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role       string
			employerID sql.NullString
			sequence   int64
			terminated bool
		)
		if err := rows.Scan(&role, &employerID, &sequence, &terminated); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		payee := models.Payee{Role: models.PayeeRole(role), EmployerID: employerID.String}
		out[payee.Key()] = models.ChainHistory{
			Payee:      payee,
			Sequence:   sequence,
			Terminated: terminated,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	lineRows, err := repo.DB.QueryContext(ctx, queries.GetOrderLinesByCase, caseID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			payeeKey string
			line     models.OrderLine
			status   string
			class    string
		)
		if err := lineRows.Scan(&payeeKey, &class, &line.From, &line.To, &line.Amount, &status, &line.Position); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		line.Classification = models.Classification(class)
		line.Status = models.LineStatus(status)

		chain, ok := out[payeeKey]
		if !ok {
			continue
		}
		chain.Lines = append(chain.Lines, line)
		out[payeeKey] = chain
	}
	if err := lineRows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	return out, nil
}

func (repo *orderHistoryPostgresRepository) EnsureChain(ctx context.Context, caseID string, payee models.Payee) (int64, error) {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	// Serializes allocation per case; a concurrent attempt waits here.
	if _, err := tx.ExecContext(ctx, queries.LockCaseRow, caseID); err != nil {
		return 0, exceptions.ErrPostgresDBFindData(err)
	}

	var (
		sequence   int64
		terminated bool
	)
	err = tx.QueryRowContext(ctx, queries.GetChainByCaseAndPayee, caseID, payee.Key()).Scan(&sequence, &terminated)
	if err == nil {
		return sequence, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return 0, exceptions.ErrPostgresDBFindData(err)
	}

	// Next sequence is one past the highest ever allocated in the case,
	// across all payees.
	var max int64
	if err := tx.QueryRowContext(ctx, queries.GetMaxChainSequenceForCase, caseID).Scan(&max); err != nil {
		return 0, exceptions.ErrPostgresDBFindData(err)
	}
	sequence = max + 1

	employerID := sql.NullString{String: payee.EmployerID, Valid: payee.EmployerID != ""}
	if _, err := tx.ExecContext(ctx, queries.InsertChain, caseID, payee.Key(), string(payee.Role), employerID, sequence); err != nil {
		return 0, exceptions.ErrPostgresDBInsertData(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, exceptions.ErrPostgresDBInsertData(err)
	}
	return sequence, nil
}

func (repo *orderHistoryPostgresRepository) Append(ctx context.Context, caseID string, payee models.Payee, chainSequence int64, lines []models.OrderLine) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queries.LockCaseRow, caseID); err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, queries.InsertOrderLine,
			caseID,
			payee.Key(),
			string(line.Classification),
			line.From,
			line.To,
			line.Amount,
			string(line.Status),
			line.Position,
		); err != nil {
			return exceptions.ErrPostgresDBInsertData(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *orderHistoryPostgresRepository) MarkTerminated(ctx context.Context, caseID string, payee models.Payee) error {
	if _, err := repo.DB.ExecContext(ctx, queries.MarkChainTerminated, caseID, payee.Key()); err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
