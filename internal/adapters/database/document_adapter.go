package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// DocumentAdapter feeds back-office records into the indexer. Entity
// CRUD happens in other systems; this only reads.
type DocumentAdapter struct {
	client *postgres.Client
}

// NewDocumentAdapter creates a new document adapter.
func NewDocumentAdapter(client *postgres.Client) repositories.DocumentSource {
	return &DocumentAdapter{client: client}
}

// ListDocuments fetches all records of one index type.
func (a *DocumentAdapter) ListDocuments(ctx context.Context, indexType string) ([]*entities.IndexDocument, error) {
	switch indexType {
	case "property":
		return a.listProperties(ctx)
	case "tenant":
		return a.listTenants(ctx)
	case "document":
		return a.listFiles(ctx)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown index type %q", indexType))
	}
}

func (a *DocumentAdapter) listProperties(ctx context.Context) ([]*entities.IndexDocument, error) {
	query := `
		SELECT id, title, description, city, property_type,
		       bedrooms, bathrooms, rent_amount, status, updated_at
		FROM properties
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list properties", err)
	}
	defer rows.Close()

	var docs []*entities.IndexDocument
	for rows.Next() {
		var (
			id, title, status           string
			description, city, propType sql.NullString
			bedrooms, bathrooms         sql.NullInt64
			rentAmount                  sql.NullFloat64
			updatedAt                   time.Time
		)
		if err := rows.Scan(&id, &title, &description, &city, &propType,
			&bedrooms, &bathrooms, &rentAmount, &status, &updatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan property", err)
		}

		payload := map[string]interface{}{
			"title":       title,
			"description": description.String,
			"city":        city.String,
			"status":      status,
			"content":     strings.TrimSpace(title + " " + description.String),
			"updated_at":  updatedAt.Unix(),
		}
		if propType.Valid {
			payload["property_type"] = propType.String
		}
		if bedrooms.Valid {
			payload["bedrooms"] = bedrooms.Int64
		}
		if bathrooms.Valid {
			payload["bathrooms"] = bathrooms.Int64
		}
		if rentAmount.Valid {
			payload["rent_amount"] = rentAmount.Float64
		}

		docs = append(docs, &entities.IndexDocument{
			ID:        id,
			IndexType: "property",
			Payload:   payload,
			UpdatedAt: updatedAt,
		})
	}
	return docs, rows.Err()
}

func (a *DocumentAdapter) listTenants(ctx context.Context) ([]*entities.IndexDocument, error) {
	query := `
		SELECT id, name, email, phone, status, updated_at
		FROM tenants
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list tenants", err)
	}
	defer rows.Close()

	var docs []*entities.IndexDocument
	for rows.Next() {
		var (
			id, name, status string
			email, phone     sql.NullString
			updatedAt        time.Time
		)
		if err := rows.Scan(&id, &name, &email, &phone, &status, &updatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan tenant", err)
		}

		docs = append(docs, &entities.IndexDocument{
			ID:        id,
			IndexType: "tenant",
			Payload: map[string]interface{}{
				"name":       name,
				"title":      name,
				"email":      email.String,
				"phone":      phone.String,
				"status":     status,
				"content":    strings.TrimSpace(name + " " + email.String),
				"updated_at": updatedAt.Unix(),
			},
			UpdatedAt: updatedAt,
		})
	}
	return docs, rows.Err()
}

func (a *DocumentAdapter) listFiles(ctx context.Context) ([]*entities.IndexDocument, error) {
	query := `
		SELECT id, title, content, tags, updated_at
		FROM documents
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list documents", err)
	}
	defer rows.Close()

	var docs []*entities.IndexDocument
	for rows.Next() {
		var (
			id, title string
			content   sql.NullString
			tags      sql.NullString
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &title, &content, &tags, &updatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan document", err)
		}

		payload := map[string]interface{}{
			"title":      title,
			"content":    content.String,
			"updated_at": updatedAt.Unix(),
		}
		if tags.Valid && tags.String != "" {
			payload["tags"] = strings.Split(tags.String, ",")
		}

		docs = append(docs, &entities.IndexDocument{
			ID:        id,
			IndexType: "document",
			Payload:   payload,
			UpdatedAt: updatedAt,
		})
	}
	return docs, rows.Err()
}
