package repository

import (
	"context"
	"coursestudio/internal/models"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type muxDataRepo struct{ db *pgxpool.Pool }

func NewMuxDataRepo(db *pgxpool.Pool) MuxDataRepo { return &muxDataRepo{db: db} }

func (r *muxDataRepo) GetBySection(ctx context.Context, sectionID string) (*models.MuxData, error) {
	var m models.MuxData
	err := r.db.QueryRow(ctx, `
		SELECT id, section_id, asset_id, COALESCE(playback_id,''), status
		FROM mux_data WHERE section_id=$1`, sectionID,
	).Scan(&m.ID, &m.SectionID, &m.AssetID, &m.PlaybackID, &m.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *muxDataRepo) Upsert(ctx context.Context, m *models.MuxData) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO mux_data (id, section_id, asset_id, playback_id, status)
		VALUES ($1,$2,$3,NULLIF($4,''),$5)
		ON CONFLICT (section_id) DO UPDATE
		SET asset_id=EXCLUDED.asset_id, playback_id=EXCLUDED.playback_id, status=EXCLUDED.status`,
		m.ID, m.SectionID, m.AssetID, m.PlaybackID, m.Status,
	)
	return err
}

func (r *muxDataRepo) DeleteBySection(ctx context.Context, sectionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM mux_data WHERE section_id=$1`, sectionID)
	return err
}

func (r *muxDataRepo) ListByStatus(ctx context.Context, status string) ([]models.MuxData, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, section_id, asset_id, COALESCE(playback_id,''), status
		FROM mux_data WHERE status=$1`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.MuxData
	for rows.Next() {
		var m models.MuxData
		if err := rows.Scan(&m.ID, &m.SectionID, &m.AssetID, &m.PlaybackID, &m.Status); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *muxDataRepo) UpdateByAsset(ctx context.Context, assetID, status, playbackID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE mux_data
		SET status=$2, playback_id=COALESCE(NULLIF($3,''), playback_id)
		WHERE asset_id=$1`, assetID, status, playbackID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
