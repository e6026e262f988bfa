package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// errIdentifierTaken error devuelto cuando el índice único de identificador rechaza la escritura.
var errIdentifierTaken = fmt.Errorf("%w: ya existe una empresa con este identificador", domain.ErrConflict)

const companySelect = `
	SELECT c.id, c.person_kind, c.corporate_name, c.personal_name, c.trade_name, c.identifier,
	       c.foreign_id, c.profile, c.direct_billing, c.required_document, c.optional_documents,
	       c.status, c.rejection_reason, c.created_by, c.reviewer_id,
	       c.created_at, c.updated_at, c.approved_at,
	       cu.id, cu.name, cu.email, cu.user_type,
	       ru.id, ru.name, ru.email, ru.user_type
	FROM companies c
	JOIN users cu ON cu.id = c.created_by
	LEFT JOIN users ru ON ru.id = c.reviewer_id`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, person_kind, corporate_name, personal_name, trade_name, identifier,
			foreign_id, profile, direct_billing, required_document, optional_documents,
			status, rejection_reason, created_by, reviewer_id, created_at, updated_at, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.PersonKind, c.CorporateName, c.PersonalName, c.TradeName, c.Identifier,
		c.ForeignID, c.Profile, c.DirectBilling, c.RequiredDocument, joinList(c.OptionalDocuments),
		c.Status, c.RejectionReason, c.CreatedByID, c.ReviewerID, c.CreatedAt, c.UpdatedAt, c.ApprovedAt,
	)
	if err != nil {
		return translateWriteError(err, errIdentifierTaken, "insert company")
	}
	return nil
}

// Update reescribe los campos mutables de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET person_kind = $2, corporate_name = $3, personal_name = $4, trade_name = $5,
			identifier = $6, foreign_id = $7, profile = $8, direct_billing = $9, required_document = $10,
			optional_documents = $11, status = $12, rejection_reason = $13, reviewer_id = $14,
			updated_at = $15, approved_at = $16
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		c.ID, c.PersonKind, c.CorporateName, c.PersonalName, c.TradeName,
		c.Identifier, c.ForeignID, c.Profile, c.DirectBilling, c.RequiredDocument,
		joinList(c.OptionalDocuments), c.Status, c.RejectionReason, c.ReviewerID,
		c.UpdatedAt, c.ApprovedAt,
	)
	if err != nil {
		return translateWriteError(err, errIdentifierTaken, "update company")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una empresa con sus resúmenes de creador y revisor.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, companySelect+` WHERE c.id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila de la empresa (usar dentro de una tx).
func (r *CompanyRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, companySelect+` WHERE c.id = $1 FOR UPDATE OF c`, id)
}

// GetByIdentifier busca una empresa por su identificador derivado.
func (r *CompanyRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.Company, error) {
	return r.findOne(ctx, companySelect+` WHERE c.identifier = $1`, identifier)
}

// List devuelve las empresas que cumplen el filtro, más recientes primero.
func (r *CompanyRepo) List(ctx context.Context, filter repository.CompanyFilter) ([]*entity.Company, error) {
	where, args := buildCompanyWhere(filter)
	rows, err := r.db.Query(ctx, companySelect+where+` ORDER BY c.created_at DESC, c.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return list, nil
}

// CountByStatus agrupa las empresas visibles por estado.
func (r *CompanyRepo) CountByStatus(ctx context.Context, filter repository.CompanyFilter) (map[string]int, error) {
	where, args := buildCompanyWhere(filter)
	rows, err := r.db.Query(ctx, `SELECT c.status, COUNT(*) FROM companies c`+where+` GROUP BY c.status`, args...)
	if err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *CompanyRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// buildCompanyWhere arma la cláusula WHERE con placeholders posicionales.
func buildCompanyWhere(f repository.CompanyFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if f.CreatedByID != "" {
		args = append(args, f.CreatedByID)
		conds = append(conds, fmt.Sprintf("c.created_by = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var (
		c                           entity.Company
		optional                    string
		creatorID, creatorName      string
		creatorEmail, creatorType   string
		reviewerID, reviewerName    *string
		reviewerEmail, reviewerType *string
	)
	err := row.Scan(
		&c.ID, &c.PersonKind, &c.CorporateName, &c.PersonalName, &c.TradeName, &c.Identifier,
		&c.ForeignID, &c.Profile, &c.DirectBilling, &c.RequiredDocument, &optional,
		&c.Status, &c.RejectionReason, &c.CreatedByID, &c.ReviewerID,
		&c.CreatedAt, &c.UpdatedAt, &c.ApprovedAt,
		&creatorID, &creatorName, &creatorEmail, &creatorType,
		&reviewerID, &reviewerName, &reviewerEmail, &reviewerType,
	)
	if err != nil {
		return nil, err
	}
	c.OptionalDocuments = splitList(optional)
	c.CreatedBy = &entity.UserSummary{ID: creatorID, Name: creatorName, Email: creatorEmail, Type: creatorType}
	if reviewerID != nil {
		c.Reviewer = &entity.UserSummary{
			ID:    *reviewerID,
			Name:  deref(reviewerName),
			Email: deref(reviewerEmail),
			Type:  deref(reviewerType),
		}
	}
	return &c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
