package client

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// ClientRepository defines the interface for client operations
type ClientRepository interface {
	Upsert(ctx context.Context, req models.CreateClientRequest) (*UpsertResult, error)
	Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error)
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	GetByCode(ctx context.Context, code string) (*models.Client, error)
	List(ctx context.Context, page, pageSize int) ([]models.Client, int, error)
	Update(ctx context.Context, id int64, req models.UpdateClientRequest) (*models.Client, error)
	Deactivate(ctx context.Context, id int64) error
}

// Repository implements ClientRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new client repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "clients"

const selectCols = "id, client_code, first_name, last_name, email, phone, address, city, department, active, created_at, updated_at"

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Client *models.Client
	IsNew  bool
}

// Upsert creates or updates a client keyed by client_code in one atomic
// statement. Contact fields are refreshed on conflict; the client code and
// active flag are left alone. Joins an open transaction on the context when
// one exists.
func (r *Repository) Upsert(ctx context.Context, req models.CreateClientRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":      "Upsert",
		"client_code": req.ClientCode,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	query := `
		WITH upsert AS (
			INSERT INTO clients (
				client_code, first_name, last_name, email, phone,
				address, city, department, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (client_code)
			DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = COALESCE(EXCLUDED.email, clients.email),
				phone = COALESCE(EXCLUDED.phone, clients.phone),
				address = COALESCE(EXCLUDED.address, clients.address),
				city = COALESCE(EXCLUDED.city, clients.city),
				department = COALESCE(EXCLUDED.department, clients.department),
				updated_at = EXCLUDED.updated_at
			RETURNING ` + selectCols + `,
				(xmax = 0) AS inserted
		)
		SELECT * FROM upsert
	`

	var result struct {
		models.Client
		Inserted bool `db:"inserted"`
	}

	err = tx.GetContext(ctx, &result, query,
		req.ClientCode, req.FirstName, req.LastName, req.Email, req.Phone,
		req.Address, req.City, req.Department, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert client")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert client %s: %v", req.ClientCode, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created client")
	}

	return &UpsertResult{Client: &result.Client, IsNew: result.Inserted}, nil
}

// Create creates a new client
func (r *Repository) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("client_code", "first_name", "last_name", "email", "phone", "address", "city", "department", "created_at", "updated_at")
	sb.Values(req.ClientCode, req.FirstName, req.LastName, req.Email, req.Phone, req.Address, req.City, req.Department, now, now)
	sb.Returning(selectCols)

	query, args := sb.Build()

	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create client")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":          client.ID,
		"client_code": client.ClientCode,
	}).Info("created client")

	return &client, nil
}

// GetByID gets a client by surrogate id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var client models.Client
	err := r.db.GetContext(ctx, &client, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get client by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get client")
	}

	return &client, nil
}

// GetByCode gets a client by its natural key
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.GetByCode")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("client_code", code))

	query, args := sb.Build()

	var client models.Client
	err := r.db.GetContext(ctx, &client, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get client by code")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get client")
	}

	return &client, nil
}

// List lists clients with pagination
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.Client, int, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	countQuery, countArgs := countSb.Build()

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count clients")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count clients")
	}

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.OrderBy("client_code ASC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Client
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list clients")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list clients")
	}

	return items, totalCount, nil
}

// Update updates mutable contact fields of a client
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateClientRequest) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Update")
	defer span.End()

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(sb.Assign("updated_at", time.Now().UTC()))

	if req.FirstName != nil {
		sb.SetMore(sb.Assign("first_name", *req.FirstName))
	}
	if req.LastName != nil {
		sb.SetMore(sb.Assign("last_name", *req.LastName))
	}
	if req.Email != nil {
		sb.SetMore(sb.Assign("email", *req.Email))
	}
	if req.Phone != nil {
		sb.SetMore(sb.Assign("phone", *req.Phone))
	}
	if req.Address != nil {
		sb.SetMore(sb.Assign("address", *req.Address))
	}
	if req.City != nil {
		sb.SetMore(sb.Assign("city", *req.City))
	}
	if req.Department != nil {
		sb.SetMore(sb.Assign("department", *req.Department))
	}

	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update client")
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":            id,
		"rows_affected": rowsAffected,
	}).Info("updated client")

	return r.GetByID(ctx, id)
}

// Deactivate soft-deactivates a client. Ingestion never deletes clients; this
// is the administrative path.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Deactivate")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(
		sb.Assign("active", false),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to deactivate client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to deactivate client")
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":            id,
		"rows_affected": rowsAffected,
	}).Info("deactivated client")

	return nil
}
