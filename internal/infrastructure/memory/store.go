// Package memory implementa los puertos de persistencia en memoria. Respeta las mismas
// restricciones que el esquema PostgreSQL (email e identificador únicos, creador existente)
// y se usa en tests y demos locales.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/portal-st-api/internal/application/usecase"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ usecase.CompanyTxRunner      = (*Store)(nil)
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	users     map[string]entity.User
	companies map[string]entity.Company
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]entity.User),
		companies: make(map[string]entity.Company),
	}
}

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Companies repositorio de empresas sobre el store.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// RunCompany serializa las unidades de trabajo y, si fn falla, deshace solo las empresas
// que fn escribió. Escrituras concurrentes fuera de la transacción se conservan.
func (s *Store) RunCompany(ctx context.Context, fn func(companies repository.CompanyRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txCompanies{CompanyRepo: s.Companies(), undo: make(map[string]*entity.Company)}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// txCompanies guarda el valor previo de cada empresa escrita dentro de RunCompany.
type txCompanies struct {
	*CompanyRepo
	undo map[string]*entity.Company // nil: la empresa no existía
}

func (t *txCompanies) Create(ctx context.Context, c *entity.Company) error {
	t.remember(c.ID)
	return t.CompanyRepo.Create(ctx, c)
}

func (t *txCompanies) Update(ctx context.Context, c *entity.Company) error {
	t.remember(c.ID)
	return t.CompanyRepo.Update(ctx, c)
}

func (t *txCompanies) remember(id string) {
	if _, seen := t.undo[id]; seen {
		return
	}
	t.s.mu.RLock()
	prev, ok := t.s.companies[id]
	t.s.mu.RUnlock()
	if !ok {
		t.undo[id] = nil
		return
	}
	t.undo[id] = &prev
}

func (t *txCompanies) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, prev := range t.undo {
		if prev == nil {
			delete(t.s.companies, id)
			continue
		}
		t.s.companies[id] = *prev
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create persiste un usuario; email repetido devuelve ErrEmailAlreadyExists.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	c.Permissions = append([]string(nil), u.Permissions...)
	r.s.users[u.ID] = c
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas
// ──────────────────────────────────────────────────────────────────────────────

// CompanyRepo implementación en memoria de CompanyRepository.
type CompanyRepo struct {
	s *Store
}

var errIdentifierTaken = fmt.Errorf("%w: ya existe una empresa con este identificador", domain.ErrConflict)

// Create persiste una empresa nueva.
func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkWrite(c); err != nil {
		return err
	}
	r.s.companies[c.ID] = stored(c)
	return nil
}

// Update reescribe una empresa existente.
func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkWrite(c); err != nil {
		return err
	}
	next := stored(c)
	next.CreatedByID = prev.CreatedByID
	next.CreatedAt = prev.CreatedAt
	r.s.companies[c.ID] = next
	return nil
}

// GetByID devuelve la empresa con los resúmenes de creador y revisor.
func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(c), nil
}

// GetByIDForUpdate el bloqueo lo da RunCompany.
func (r *CompanyRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

// GetByIdentifier busca por identificador derivado.
func (r *CompanyRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.Identifier == identifier {
			return r.hydrate(c), nil
		}
	}
	return nil, nil
}

// List más recientes primero.
func (r *CompanyRepo) List(_ context.Context, f repository.CompanyFilter) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Company, 0)
	for _, c := range r.s.companies {
		if matches(c, f) {
			list = append(list, r.hydrate(c))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// CountByStatus agrupa por estado.
func (r *CompanyRepo) CountByStatus(_ context.Context, f repository.CompanyFilter) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[string]int)
	for _, c := range r.s.companies {
		if matches(c, f) {
			counts[c.Status]++
		}
	}
	return counts, nil
}

// checkWrite emula el índice único y las foreign keys. Requiere r.s.mu tomado.
func (r *CompanyRepo) checkWrite(c *entity.Company) error {
	for id, other := range r.s.companies {
		if id != c.ID && other.Identifier == c.Identifier {
			return errIdentifierTaken
		}
	}
	if _, ok := r.s.users[c.CreatedByID]; !ok {
		if _, exists := r.s.companies[c.ID]; !exists {
			return domain.ErrUserNotFound
		}
	}
	if c.ReviewerID != nil {
		if _, ok := r.s.users[*c.ReviewerID]; !ok {
			return domain.ErrUserNotFound
		}
	}
	return nil
}

func (r *CompanyRepo) hydrate(c entity.Company) *entity.Company {
	out := c
	out.OptionalDocuments = append([]string{}, c.OptionalDocuments...)
	if c.ReviewerID != nil {
		id := *c.ReviewerID
		out.ReviewerID = &id
	}
	if c.ApprovedAt != nil {
		at := *c.ApprovedAt
		out.ApprovedAt = &at
	}
	if u, ok := r.s.users[c.CreatedByID]; ok {
		out.CreatedBy = summary(u)
	}
	if c.ReviewerID != nil {
		if u, ok := r.s.users[*c.ReviewerID]; ok {
			out.Reviewer = summary(u)
		}
	}
	return &out
}

func stored(c *entity.Company) entity.Company {
	out := *c
	out.OptionalDocuments = append([]string{}, c.OptionalDocuments...)
	out.CreatedBy = nil
	out.Reviewer = nil
	return out
}

func matches(c entity.Company, f repository.CompanyFilter) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.CreatedByID != "" && c.CreatedByID != f.CreatedByID {
		return false
	}
	return true
}

func summary(u entity.User) *entity.UserSummary {
	return &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Type: u.Type}
}
