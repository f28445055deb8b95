package platform

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

// PlatformRepository defines the interface for platform operations
type PlatformRepository interface {
	Upsert(ctx context.Context, req models.CreatePlatformRequest) (*UpsertResult, error)
	Create(ctx context.Context, req models.CreatePlatformRequest) (*models.Platform, error)
	GetByID(ctx context.Context, id int64) (*models.Platform, error)
	GetByName(ctx context.Context, name string) (*models.Platform, error)
	List(ctx context.Context, page, pageSize int) ([]models.Platform, int, error)
}

// Repository implements PlatformRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new platform repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "platforms"

const selectCols = "id, name, category, active, created_at, updated_at"

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Platform *models.Platform
	IsNew    bool
}

// Upsert resolves a platform by name, creating it when unseen. The category
// defaults to digital wallet for auto-created platforms and is never changed
// for existing ones; accurate categorization needs pre-seeding. Joins an open
// transaction on the context when one exists.
func (r *Repository) Upsert(ctx context.Context, req models.CreatePlatformRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "platform.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method": "Upsert",
		"name":   req.Name,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	category := req.Category
	if category == "" {
		category = models.PlatformCategoryDigitalWallet
	}

	now := time.Now().UTC()

	query := `
		WITH upsert AS (
			INSERT INTO platforms (name, category, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name)
			DO UPDATE SET
				updated_at = EXCLUDED.updated_at
			RETURNING ` + selectCols + `,
				(xmax = 0) AS inserted
		)
		SELECT * FROM upsert
	`

	var result struct {
		models.Platform
		Inserted bool `db:"inserted"`
	}

	err = tx.GetContext(ctx, &result, query, req.Name, category, now, now)
	if err != nil {
		log.WithError(err).Error("Failed to upsert platform")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert platform %s: %v", req.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID, "category": category}).Info("Created platform")
	}

	return &UpsertResult{Platform: &result.Platform, IsNew: result.Inserted}, nil
}

// Create creates a new platform
func (r *Repository) Create(ctx context.Context, req models.CreatePlatformRequest) (*models.Platform, error) {
	ctx, span := tracing.StartSpan(ctx, "platform.Repository.Create")
	defer span.End()

	category := req.Category
	if category == "" {
		category = models.PlatformCategoryDigitalWallet
	}

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("name", "category", "created_at", "updated_at")
	sb.Values(req.Name, category, now, now)
	sb.Returning(selectCols)

	query, args := sb.Build()

	var platform models.Platform
	if err := r.db.GetContext(ctx, &platform, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create platform")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create platform")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   platform.ID,
		"name": platform.Name,
	}).Info("created platform")

	return &platform, nil
}

// GetByID gets a platform by surrogate id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Platform, error) {
	ctx, span := tracing.StartSpan(ctx, "platform.Repository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var platform models.Platform
	err := r.db.GetContext(ctx, &platform, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get platform by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get platform")
	}

	return &platform, nil
}

// GetByName gets a platform by its natural key
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Platform, error) {
	ctx, span := tracing.StartSpan(ctx, "platform.Repository.GetByName")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("name", name))

	query, args := sb.Build()

	var platform models.Platform
	err := r.db.GetContext(ctx, &platform, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get platform by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get platform")
	}

	return &platform, nil
}

// List lists platforms with pagination
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.Platform, int, error) {
	ctx, span := tracing.StartSpan(ctx, "platform.Repository.List")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to count platforms")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count platforms")
	}

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.OrderBy("name ASC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Platform
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list platforms")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list platforms")
	}

	return items, totalCount, nil
}
