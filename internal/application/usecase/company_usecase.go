package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"github.com/jhoicas/portal-st-api/internal/domain/registry"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
	"github.com/jhoicas/portal-st-api/pkg/logger"
)

// CompanyUseCase aplica las reglas del registro de empresas: identificador único,
// aprobación automática para staff interno, bloqueo de edición tras la decisión
// y visibilidad según propietario.
type CompanyUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	tx        CompanyTxRunner
	log       *logger.Logger
	now       func() time.Time
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(users repository.UserRepository, companies repository.CompanyRepository, tx CompanyTxRunner, log *logger.Logger) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{
		users:     users,
		companies: companies,
		tx:        tx,
		log:       log.Named("empresas"),
		now:       time.Now,
	}
}

// Create registra una empresa. Un creador INTERNO la deja APROVADA con fecha de aprobación;
// cualquier otro la deja PENDENTE.
func (uc *CompanyUseCase) Create(ctx context.Context, creatorID string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	identifier, err := registry.DeriveIdentifier(registry.IdentifierSource{
		PersonKind: in.PersonKind,
		CNPJ:       in.CNPJ,
		CPF:        in.CPF,
		ForeignID:  in.ForeignID,
	})
	if err != nil {
		return nil, err
	}
	existing, err := uc.companies.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: empresa ya registrada", domain.ErrConflict)
	}
	if registry.HasDuplicateDocument(in.RequiredDocument, in.OptionalDocuments) {
		return nil, fmt.Errorf("%w: archivo duplicado", domain.ErrInvalidInput)
	}
	creator, err := uc.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}

	now := uc.now()
	company := &entity.Company{
		ID:                uuid.New().String(),
		PersonKind:        in.PersonKind,
		CorporateName:     in.CorporateName,
		PersonalName:      in.PersonalName,
		TradeName:         in.TradeName,
		Identifier:        identifier,
		ForeignID:         in.ForeignID,
		Profile:           in.Profile,
		DirectBilling:     in.DirectBilling,
		RequiredDocument:  in.RequiredDocument,
		OptionalDocuments: copyDocs(in.OptionalDocuments),
		Status:            entity.StatusPending,
		CreatedByID:       creator.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         summarize(creator),
	}
	if creator.IsInternal() {
		company.Status = entity.StatusApproved
		company.ApprovedAt = &now
	}
	// La consulta previa es una optimización: el índice único de identificador resuelve
	// las carreras y el repositorio traduce la violación a ErrConflict.
	if err := uc.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("empresa_id", company.ID).
		Str("status", company.Status).
		Str("criado_por", creator.ID).
		Msg("empresa registrada")
	return toCompanyResponse(company), nil
}

// List devuelve las empresas visibles para el usuario, más recientes primero.
// Un usuario no INTERNO solo ve las suyas; un filtro de estado inválido se ignora.
func (uc *CompanyUseCase) List(ctx context.Context, requesterID, status string) ([]dto.CompanyResponse, error) {
	filter, err := uc.visibleFilter(ctx, requesterID, status)
	if err != nil {
		return nil, err
	}
	list, err := uc.companies.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return items, nil
}

// Stats cuenta empresas por estado dentro del mismo alcance que List.
func (uc *CompanyUseCase) Stats(ctx context.Context, requesterID string) (*dto.CompanyStatsResponse, error) {
	filter, err := uc.visibleFilter(ctx, requesterID, "")
	if err != nil {
		return nil, err
	}
	counts, err := uc.companies.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.CompanyStatsResponse{
		Pending:  counts[entity.StatusPending],
		Approved: counts[entity.StatusApproved],
		Rejected: counts[entity.StatusRejected],
	}
	out.Total = out.Pending + out.Approved + out.Rejected
	return out, nil
}

// GetByID obtiene una empresa. Un usuario EXTERNO solo accede a las que creó.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id, requesterID string) (*dto.CompanyResponse, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
	}
	if !access.CanAccess(requester, company, access.ActionView) {
		return nil, fmt.Errorf("%w: sin permiso para ver esta empresa", domain.ErrForbidden)
	}
	return toCompanyResponse(company), nil
}

// Update aplica una actualización parcial mientras la empresa está PENDENTE.
// Si cambia el tipo de persona o algún documento de origen se recalcula el identificador.
func (uc *CompanyUseCase) Update(ctx context.Context, id, requesterID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, domain.ErrUserNotFound
	}

	var out *entity.Company
	err = uc.tx.RunCompany(ctx, func(companies repository.CompanyRepository) error {
		company, err := companies.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
		}
		// el bloqueo por decisión aplica a cualquier solicitante
		if company.IsFrozen() {
			return fmt.Errorf("%w: empresas aprobadas o reprobadas no pueden editarse", domain.ErrInvalidInput)
		}
		if !access.CanAccess(requester, company, access.ActionEdit) {
			return fmt.Errorf("%w: sin permiso para editar esta empresa", domain.ErrForbidden)
		}

		requiredDoc := company.RequiredDocument
		if present(in.RequiredDocument) {
			requiredDoc = *in.RequiredDocument
		}
		optionalDocs := company.OptionalDocuments
		if in.OptionalDocuments != nil {
			optionalDocs = *in.OptionalDocuments
		}
		if registry.HasDuplicateDocument(requiredDoc, optionalDocs) {
			return fmt.Errorf("%w: archivo duplicado", domain.ErrInvalidInput)
		}

		identifier, err := uc.nextIdentifier(ctx, companies, company, in)
		if err != nil {
			return err
		}

		if present(in.PersonKind) {
			company.PersonKind = *in.PersonKind
		}
		assign(&company.CorporateName, in.CorporateName)
		assign(&company.PersonalName, in.PersonalName)
		assign(&company.TradeName, in.TradeName)
		assign(&company.ForeignID, in.ForeignID)
		assign(&company.Profile, in.Profile)
		if in.DirectBilling != nil {
			company.DirectBilling = *in.DirectBilling
		}
		company.Identifier = identifier
		company.RequiredDocument = requiredDoc
		company.OptionalDocuments = copyDocs(optionalDocs)
		company.UpdatedAt = uc.now()

		if err := companies.Update(ctx, company); err != nil {
			return err
		}
		out, err = companies.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("empresa_id", id).Str("editado_por", requester.ID).Msg("empresa actualizada")
	return toCompanyResponse(out), nil
}

// UpdateStatus registra la decisión de un revisor INTERNO. Aprobar fija la fecha de
// aprobación; otros estados conservan la existente.
func (uc *CompanyUseCase) UpdateStatus(ctx context.Context, id, requesterID string, in dto.UpdateCompanyStatusRequest) (*dto.CompanyResponse, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(requester, nil, access.ActionReview) {
		return nil, fmt.Errorf("%w: solo usuarios internos pueden cambiar el estado", domain.ErrInvalidInput)
	}
	if in.ReviewerID != nil && *in.ReviewerID != "" {
		reviewer, err := uc.users.GetByID(ctx, *in.ReviewerID)
		if err != nil {
			return nil, err
		}
		if reviewer == nil {
			return nil, fmt.Errorf("%w: responsable no encontrado", domain.ErrUserNotFound)
		}
	}

	var out *entity.Company
	err = uc.tx.RunCompany(ctx, func(companies repository.CompanyRepository) error {
		company, err := companies.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
		}
		if err := registry.CheckTransition(company.Status, in.Status); err != nil {
			return err
		}
		reason := company.RejectionReason
		if in.RejectionReason != nil {
			reason = *in.RejectionReason
		}
		if in.Status != entity.StatusRejected {
			reason = ""
		}
		if err := registry.CheckDecision(in.Status, reason); err != nil {
			return err
		}

		now := uc.now()
		company.Status = in.Status
		company.RejectionReason = reason
		if in.ReviewerID != nil && *in.ReviewerID != "" {
			reviewerID := *in.ReviewerID
			company.ReviewerID = &reviewerID
		}
		if in.Status == entity.StatusApproved {
			company.ApprovedAt = &now
		}
		company.UpdatedAt = now

		if err := companies.Update(ctx, company); err != nil {
			return err
		}
		out, err = companies.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("empresa_id", id).
		Str("status", in.Status).
		Str("revisado_por", requester.ID).
		Msg("estado de empresa actualizado")
	return toCompanyResponse(out), nil
}

// nextIdentifier recalcula el identificador cuando la actualización toca el tipo de persona
// o un documento de origen. Si el tipo no cambia y falta su documento, se conserva el actual.
func (uc *CompanyUseCase) nextIdentifier(ctx context.Context, companies repository.CompanyRepository, current *entity.Company, in dto.UpdateCompanyRequest) (string, error) {
	if !present(in.PersonKind) && !present(in.CNPJ) && !present(in.CPF) && !present(in.ForeignID) {
		return current.Identifier, nil
	}
	src := registry.IdentifierSource{
		PersonKind: current.PersonKind,
		CNPJ:       value(in.CNPJ),
		CPF:        value(in.CPF),
		ForeignID:  value(in.ForeignID),
	}
	if present(in.PersonKind) {
		src.PersonKind = *in.PersonKind
	}
	if src.PersonKind == current.PersonKind {
		switch src.PersonKind {
		case entity.PersonKindLegalEntity:
			src.CNPJ = fallback(src.CNPJ, current.Identifier)
		case entity.PersonKindNatural:
			src.CPF = fallback(src.CPF, current.Identifier)
		case entity.PersonKindForeign:
			src.ForeignID = fallback(src.ForeignID, current.Identifier)
		}
	}
	identifier, err := registry.DeriveIdentifier(src)
	if err != nil {
		return "", err
	}
	if err := registry.CheckIdentifierFormat(src.PersonKind, identifier); err != nil {
		return "", err
	}
	if identifier == current.Identifier {
		return identifier, nil
	}
	other, err := companies.GetByIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}
	if other != nil && other.ID != current.ID {
		return "", fmt.Errorf("%w: ya existe una empresa con este identificador", domain.ErrConflict)
	}
	return identifier, nil
}

// visibleFilter traduce la regla de visibilidad a un filtro de repositorio.
func (uc *CompanyUseCase) visibleFilter(ctx context.Context, requesterID, status string) (repository.CompanyFilter, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return repository.CompanyFilter{}, err
	}
	var filter repository.CompanyFilter
	if entity.IsValidStatus(status) {
		filter.Status = status
	}
	if !access.SeesAll(requester) {
		filter.CreatedByID = requesterID
	}
	return filter, nil
}

func present(s *string) bool { return s != nil && *s != "" }

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func assign(dst *string, src *string) {
	if present(src) {
		*dst = *src
	}
}

func copyDocs(docs []string) []string {
	out := make([]string, 0, len(docs))
	return append(out, docs...)
}

func summarize(u *entity.User) *entity.UserSummary {
	if u == nil {
		return nil
	}
	return &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Type: u.Type}
}

func toSummaryResponse(s *entity.UserSummary) *dto.UserSummaryResponse {
	if s == nil {
		return nil
	}
	return &dto.UserSummaryResponse{ID: s.ID, Name: s.Name, Email: s.Email, Type: s.Type}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                c.ID,
		PersonKind:        c.PersonKind,
		CorporateName:     c.CorporateName,
		PersonalName:      c.PersonalName,
		TradeName:         c.TradeName,
		Identifier:        c.Identifier,
		ForeignID:         c.ForeignID,
		Profile:           c.Profile,
		DirectBilling:     c.DirectBilling,
		RequiredDocument:  c.RequiredDocument,
		OptionalDocuments: copyDocs(c.OptionalDocuments),
		Status:            c.Status,
		RejectionReason:   c.RejectionReason,
		CreatedByID:       c.CreatedByID,
		CreatedBy:         toSummaryResponse(c.CreatedBy),
		ReviewerID:        c.ReviewerID,
		Reviewer:          toSummaryResponse(c.Reviewer),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		ApprovedAt:        c.ApprovedAt,
	}
}
