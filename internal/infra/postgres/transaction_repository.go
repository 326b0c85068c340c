package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

// Quantas referências sorteamos antes de desistir com ErrReferenceExhausted.
// Com ~90M de valores possíveis isso é praticamente inalcançável; se
// acontecer é anomalia e vira log + 409.
const maxReferenceAttempts = 10

// querier cobre pgxpool.Pool e pgx.Tx: o repositório roda igual dentro ou
// fora de uma transação do TransactionManager.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TransactionRepository implementa gateway.TransactionRepository com pgx/v5
type TransactionRepository struct {
	db querier
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

// transactionColumns na ordem em que scanTransaction lê
const transactionColumns = `t.id, t.reference, t.timestamp, t.sender_id,
	t.sender_country, t.sender_currency, t.sender_amount,
	t.receiver_country, t.receiver_currency, t.receiver_amount,
	t.conversion_rate::text, t.payment_type,
	t.recipient_name, t.recipient_phone, t.recipient_type,
	t.include_fee, t.fee_amount, t.status, t.is_hidden`

// Create insere com referência sorteada, repetindo enquanto a constraint
// UNIQUE de reference recusar. Id, timestamp e defaults vêm do banco.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	const query = `
		INSERT INTO transactions (
			id, reference, sender_id,
			sender_country, sender_currency, sender_amount,
			receiver_country, receiver_currency, receiver_amount,
			conversion_rate, payment_type,
			recipient_name, recipient_phone, recipient_type,
			include_fee, fee_amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, reference, timestamp, status, is_hidden`

	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		id := uuid.New()
		reference := domain.NewReference()

		err := r.db.QueryRow(ctx, query,
			id, reference, transaction.SenderID,
			transaction.SenderCountry, transaction.SenderCurrency, transaction.SenderAmount,
			transaction.ReceiverCountry, transaction.ReceiverCurrency, transaction.ReceiverAmount,
			transaction.ConversionRate.String(), transaction.PaymentType,
			transaction.RecipientName, transaction.RecipientPhone, transaction.RecipientType,
			transaction.IncludeFee, transaction.FeeAmount, domain.StatusPending,
		).Scan(&transaction.ID, &transaction.Reference, &transaction.Timestamp,
			&transaction.Status, &transaction.IsHidden)

		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "transactions_reference_key") {
			// Referência já emitida: sorteia outra e tenta de novo
			continue
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return domain.ErrReferenceExhausted
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID, includeHidden bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1`
	if !includeHidden {
		query += ` AND t.is_hidden = FALSE`
	}

	transaction, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.reference = $1`

	transaction, err := scanTransaction(r.db.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return transaction, nil
}

// List: mais recentes primeiro, offset = (page-1)*limit
func (r *TransactionRepository) List(ctx context.Context, filter gateway.ListFilter) ([]*domain.Transaction, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "t.status = "+arg(*filter.Status))
	}
	if filter.SenderID != nil {
		conditions = append(conditions, "t.sender_id = "+arg(*filter.SenderID))
	}
	if filter.VisibleOnly {
		conditions = append(conditions, "t.is_hidden = FALSE")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions t`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.timestamp DESC"
	query += " OFFSET " + arg((filter.Page-1)*filter.Limit)
	query += " LIMIT " + arg(filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Search: ILIKE parcial (OR) sobre referência, nome/telefone do remetente
// (join em users) e nome/telefone do destinatário, com filtros opcionais
// de status e intervalo de datas.
func (r *TransactionRepository) Search(ctx context.Context, filter gateway.SearchFilter) ([]*domain.Transaction, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf(`(
			t.reference ILIKE %[1]s OR
			u.full_name ILIKE %[1]s OR
			u.phone ILIKE %[1]s OR
			t.recipient_name ILIKE %[1]s OR
			t.recipient_phone ILIKE %[1]s)`, pattern))
	}
	if filter.Status != nil {
		conditions = append(conditions, "t.status = "+arg(*filter.Status))
	}
	if filter.Start != nil {
		conditions = append(conditions, "t.timestamp >= "+arg(*filter.Start))
	}
	if filter.End != nil {
		// O usecase já estendeu para o fim do dia; limite exclusivo
		conditions = append(conditions, "t.timestamp < "+arg(*filter.End))
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN users u ON u.id = t.sender_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.timestamp DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// UpdateStatus devolve o status anterior junto com a entidade atualizada.
// Sem checagem de concorrência otimista: duas trocas simultâneas no mesmo
// id resolvem em last-write-wins (limitação conhecida e documentada).
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Status, *domain.Transaction, error) {
	query := `
		UPDATE transactions t SET status = $2
		FROM (SELECT id, status FROM transactions WHERE id = $1) AS old
		WHERE t.id = old.id
		RETURNING ` + transactionColumns + `, old.status`

	var (
		transaction domain.Transaction
		rateText    string
		previous    domain.Status
	)
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&transaction.ID, &transaction.Reference, &transaction.Timestamp, &transaction.SenderID,
		&transaction.SenderCountry, &transaction.SenderCurrency, &transaction.SenderAmount,
		&transaction.ReceiverCountry, &transaction.ReceiverCurrency, &transaction.ReceiverAmount,
		&rateText, &transaction.PaymentType,
		&transaction.RecipientName, &transaction.RecipientPhone, &transaction.RecipientType,
		&transaction.IncludeFee, &transaction.FeeAmount, &transaction.Status, &transaction.IsHidden,
		&previous,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, domain.ErrTransactionNotFound
		}
		return "", nil, fmt.Errorf("failed to update status: %w", err)
	}

	rate, err := decimal.NewFromString(rateText)
	if err != nil {
		return "", nil, fmt.Errorf("invalid conversion_rate in row %s: %w", transaction.ID, err)
	}
	transaction.ConversionRate = rate

	return previous, &transaction, nil
}

// SoftDelete marca is_hidden=true. Linha já oculta (ou inexistente) não é
// erro: a operação é um no-op idempotente por contrato.
func (r *TransactionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE transactions SET is_hidden = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) UpdateReference(ctx context.Context, id uuid.UUID, reference string) error {
	tag, err := r.db.Exec(ctx, `UPDATE transactions SET reference = $2 WHERE id = $1`, id, reference)
	if err != nil {
		return fmt.Errorf("failed to update reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionRepository{db: pgTx}
}

// Mappers

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		rateText    string
	)
	err := row.Scan(
		&transaction.ID, &transaction.Reference, &transaction.Timestamp, &transaction.SenderID,
		&transaction.SenderCountry, &transaction.SenderCurrency, &transaction.SenderAmount,
		&transaction.ReceiverCountry, &transaction.ReceiverCurrency, &transaction.ReceiverAmount,
		&rateText, &transaction.PaymentType,
		&transaction.RecipientName, &transaction.RecipientPhone, &transaction.RecipientType,
		&transaction.IncludeFee, &transaction.FeeAmount, &transaction.Status, &transaction.IsHidden,
	)
	if err != nil {
		return nil, err
	}

	rate, err := decimal.NewFromString(rateText)
	if err != nil {
		return nil, fmt.Errorf("invalid conversion_rate in row %s: %w", transaction.ID, err)
	}
	transaction.ConversionRate = rate

	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := []*domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return transactions, nil
}

// isUniqueViolation: código 23505 do Postgres na constraint esperada
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
