package queries

const (
	GetChainsByCase = `
		SELECT payee_role, payee_employer_id, sequence, terminated
		FROM chains
		WHERE case_id = $1
		ORDER BY sequence
	`

	GetChainByCaseAndPayee = `
		SELECT sequence, terminated
		FROM chains
		WHERE case_id = $1 AND payee_key = $2
	`

	GetMaxChainSequenceForCase = `
		SELECT COALESCE(MAX(sequence), 0)
		FROM chains
		WHERE case_id = $1
	`

	InsertChain = `
		INSERT INTO chains (case_id, payee_key, payee_role, payee_employer_id, sequence, terminated)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`

	MarkChainTerminated = `
		UPDATE chains
		SET terminated = TRUE
		WHERE case_id = $1 AND payee_key = $2
	`

	GetOrderLinesByCase = `
		SELECT c.payee_key, l.classification, l.date_from, l.date_to, l.amount, l.status, l.position
		FROM order_lines l
		JOIN chains c ON c.case_id = l.case_id AND c.payee_key = l.payee_key
		WHERE l.case_id = $1
		ORDER BY c.payee_key, l.position
	`

	InsertOrderLine = `
		INSERT INTO order_lines (case_id, payee_key, classification, date_from, date_to, amount, status, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	LockCaseRow = `
		SELECT pg_advisory_xact_lock(hashtext($1))
	`
)
