package bar

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrBarNotFound = errors.New("bar not found")

const barColumns = `id, name, address, description, image_url, phone, opening_time, closing_time,
	min_price, max_price, latitude, longitude, music_genres, rating, total_reviews, is_active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateBarRequest) (*Bar, error) {
	query := `
		INSERT INTO bars (name, address, description, image_url, phone, opening_time, closing_time,
			min_price, max_price, latitude, longitude, music_genres, rating, total_reviews)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + barColumns

	genres := pq.StringArray(req.MusicGenres)
	if genres == nil {
		genres = pq.StringArray{}
	}

	var bar Bar
	err := r.db.GetContext(ctx, &bar, query,
		req.Name, req.Address, req.Description, req.ImageURL, req.Phone, req.OpeningTime, req.ClosingTime,
		req.MinPrice, req.MaxPrice, req.Latitude, req.Longitude, genres, req.Rating, req.TotalReviews,
	)
	if err != nil {
		return nil, err
	}

	return &bar, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateBarRequest) (*Bar, error) {
	query := `
		UPDATE bars SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			description = COALESCE($4, description),
			image_url = COALESCE($5, image_url),
			phone = COALESCE($6, phone),
			opening_time = COALESCE($7, opening_time),
			closing_time = COALESCE($8, closing_time),
			min_price = COALESCE($9, min_price),
			max_price = COALESCE($10, max_price),
			latitude = COALESCE($11, latitude),
			longitude = COALESCE($12, longitude),
			music_genres = COALESCE($13, music_genres),
			rating = COALESCE($14, rating),
			total_reviews = COALESCE($15, total_reviews),
			is_active = COALESCE($16, is_active)
		WHERE id = $1
		RETURNING ` + barColumns

	var genres interface{}
	if req.MusicGenres != nil {
		genres = pq.StringArray(*req.MusicGenres)
	}

	var bar Bar
	err := r.db.GetContext(ctx, &bar, query, id,
		req.Name, req.Address, req.Description, req.ImageURL, req.Phone, req.OpeningTime, req.ClosingTime,
		req.MinPrice, req.MaxPrice, req.Latitude, req.Longitude, genres, req.Rating, req.TotalReviews, req.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBarNotFound
	}
	if err != nil {
		return nil, err
	}

	return &bar, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Bar, error) {
	return r.getOne(ctx, `SELECT `+barColumns+` FROM bars WHERE id = $1`, id)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Bar, error) {
	return r.getOne(ctx, `SELECT `+barColumns+` FROM bars WHERE name = $1 LIMIT 1`, name)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Bar, error) {
	var bar Bar
	err := r.db.GetContext(ctx, &bar, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Bar, error) {
	query := `SELECT ` + barColumns + ` FROM bars WHERE is_active = TRUE ORDER BY name`

	bars := []Bar{}
	if err := r.db.SelectContext(ctx, &bars, query); err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *repository) ListActiveIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM bars WHERE is_active = TRUE ORDER BY id`); err != nil {
		return nil, err
	}
	return ids, nil
}
