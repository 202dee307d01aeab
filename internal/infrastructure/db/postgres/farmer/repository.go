package farmer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domain "agri-registry-api/internal/domain/farmer"
	"agri-registry-api/internal/infrastructure/db/postgres"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Repository struct {
	db      postgres.DBTX
	builder sq.StatementBuilderType
}

func NewRepository(db postgres.DBTX) domain.Repository {
	return &Repository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *Repository) CreateFarmer(ctx context.Context, p domain.Profile) (*domain.Farmer, error) {
	f := new(Farmer)

	err := r.db.QueryRow(
		ctx,
		InsertFarmer,
		p.FullName, p.CPF.String(), p.BirthDate, p.Phone, p.Active,
	).Scan(f.scanDest()...)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateCPF
		}
		return nil, err
	}

	return fromDBModel(f)
}

func (r *Repository) FetchFarmerByID(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	// ids are uuids here; anything else cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	return r.fetchOne(ctx, SelectFarmerByID, id)
}

func (r *Repository) FetchFarmerByCPF(ctx context.Context, cpf domain.CPF) (*domain.Farmer, error) {
	return r.fetchOne(ctx, SelectFarmerByCPF, cpf.String())
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*domain.Farmer, error) {
	f := new(Farmer)
	if err := r.db.QueryRow(ctx, query, arg).Scan(f.scanDest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f)
}

func (r *Repository) UpdateFarmer(ctx context.Context, id domain.ID, p domain.Patch) (*domain.Farmer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	f := new(Farmer)
	err := r.db.QueryRow(ctx, UpdateFarmerByID,
		id, p.FullName, p.BirthDate, p.Phone, p.Active,
	).Scan(f.scanDest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f)
}

func (r *Repository) DeleteFarmer(ctx context.Context, id domain.ID) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	_, err := r.db.Exec(ctx, DeleteFarmerByID, id)
	return err
}

func (r *Repository) FetchFarmers(ctx context.Context, filter domain.Filter) (domain.Farmers, error) {
	query, args, err := r.listQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs Farmers
	for rows.Next() {
		f := new(Farmer)
		if err = rows.Scan(f.scanDest()...); err != nil {
			return nil, err
		}

		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs)
}

func (r *Repository) listQuery(filter domain.Filter) (string, []any, error) {
	q := r.builder.
		Select(columns).
		From(tableFarmers).
		OrderBy(`full_name COLLATE "pt-BR-x-icu" ASC`, "id ASC").
		Limit(domain.MaxListResults)

	if filter.Name != "" {
		q = q.Where(sq.ILike{"full_name": "%" + likeEscaper.Replace(filter.Name) + "%"})
	}
	if filter.CPF != "" {
		if len(filter.CPF) >= 11 {
			q = q.Where(sq.Eq{"cpf": filter.CPF})
		} else {
			q = q.Where(sq.Like{"cpf": likeEscaper.Replace(filter.CPF) + "%"})
		}
	}
	if filter.Active != nil {
		q = q.Where(sq.Eq{"active": *filter.Active})
	}

	return q.ToSql()
}
