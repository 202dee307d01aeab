package farmer

const (
	tableFarmers = "farmers"
	columns      = `id::text, full_name, cpf, birth_date, phone, active, created_at, updated_at`

	SelectFarmerByID = `
		SELECT ` + columns + `
		FROM farmers
		WHERE id = $1
	`
	SelectFarmerByCPF = `
		SELECT ` + columns + `
		FROM farmers
		WHERE cpf = $1
	`
	InsertFarmer = `
		INSERT INTO farmers (full_name, cpf, birth_date, phone, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns + `
	`
	// A NULL parameter keeps the stored value; an empty phone clears it.
	UpdateFarmerByID = `
		UPDATE farmers
		SET full_name = COALESCE($2, full_name),
		    birth_date = COALESCE($3, birth_date),
		    phone = CASE WHEN $4::text IS NULL THEN phone ELSE NULLIF($4::text, '') END,
		    active = COALESCE($5, active),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns + `
	`
	DeleteFarmerByID = `DELETE FROM farmers WHERE id = $1`
)
