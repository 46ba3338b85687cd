package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
)

const plantColumns = `id, name, species, type, location, water_interval_days, last_watered, next_water_date,
	repot_interval_months, last_repot, tags, notes, photo_data, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (models.Plant, error) {
	var p models.Plant
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.Name, &p.Species, &p.Type, &p.Location, &p.WaterIntervalDays, &p.LastWatered, &p.NextWaterDate,
		&p.RepotIntervalMonths, &p.LastRepot, &p.Tags, &p.Notes, &p.PhotoData, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Plant{}, err
	}

	p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Plant{}, fmt.Errorf("failed to parse created_at for plant %s: %w", p.ID, err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return models.Plant{}, fmt.Errorf("failed to parse updated_at for plant %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *Store) queryPlants(query string, args ...any) ([]models.Plant, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plants := []models.Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (s *Store) GetPlant(id string) (models.Plant, error) {
	if err := s.ready(); err != nil {
		return models.Plant{}, storage.Wrap("get", constants.CollectionPlants, id, err)
	}

	row := s.db.QueryRow("SELECT "+plantColumns+" FROM plants WHERE id = ?", id)
	p, err := scanPlant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plant{}, fmt.Errorf("plant %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Plant{}, storage.Wrap("get", constants.CollectionPlants, id, err)
	}
	return p, nil
}

func (s *Store) GetAllPlants() ([]models.Plant, error) {
	if err := s.ready(); err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionPlants, "", err)
	}

	plants, err := s.queryPlants("SELECT " + plantColumns + " FROM plants ORDER BY rowid")
	if err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionPlants, "", err)
	}
	return plants, nil
}

func (s *Store) GetPlantsByIndex(index, value string) ([]models.Plant, error) {
	var column string
	switch index {
	case constants.IndexPlantsByName:
		column = "name"
	case constants.IndexPlantsByType:
		column = "type"
	default:
		return nil, fmt.Errorf("plants index %q: %w", index, storage.ErrUnknownIndex)
	}
	if err := s.ready(); err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionPlants, "", err)
	}

	query := "SELECT " + plantColumns + " FROM plants"
	var args []any
	if value != "" {
		query += " WHERE " + column + " = ?"
		args = append(args, value)
	}
	query += " ORDER BY " + column + ", rowid"

	plants, err := s.queryPlants(query, args...)
	if err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionPlants, index, err)
	}
	return plants, nil
}

func (s *Store) PutPlant(p models.Plant) error {
	if err := s.ready(); err != nil {
		return storage.Wrap("put", constants.CollectionPlants, p.ID, err)
	}

	_, err := s.db.Exec(`
		INSERT INTO plants (`+plantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			species = excluded.species,
			type = excluded.type,
			location = excluded.location,
			water_interval_days = excluded.water_interval_days,
			last_watered = excluded.last_watered,
			next_water_date = excluded.next_water_date,
			repot_interval_months = excluded.repot_interval_months,
			last_repot = excluded.last_repot,
			tags = excluded.tags,
			notes = excluded.notes,
			photo_data = excluded.photo_data,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Species, p.Type, p.Location, p.WaterIntervalDays, p.LastWatered, p.NextWaterDate,
		p.RepotIntervalMonths, p.LastRepot, p.Tags, p.Notes, p.PhotoData,
		p.CreatedAt.UTC().Format(time.RFC3339Nano), p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return storage.Wrap("put", constants.CollectionPlants, p.ID, err)
}

func (s *Store) DeletePlant(id string) error {
	if err := s.ready(); err != nil {
		return storage.Wrap("delete", constants.CollectionPlants, id, err)
	}
	_, err := s.db.Exec("DELETE FROM plants WHERE id = ?", id)
	return storage.Wrap("delete", constants.CollectionPlants, id, err)
}

func (s *Store) ClearPlants() error {
	if err := s.ready(); err != nil {
		return storage.Wrap("clear", constants.CollectionPlants, "", err)
	}
	_, err := s.db.Exec("DELETE FROM plants")
	return storage.Wrap("clear", constants.CollectionPlants, "", err)
}

func (s *Store) DeletePlantCascade(id string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, storage.Wrap("delete", constants.CollectionPlants, id, err)
	}

	var removed []string
	err := s.withTx(func(tx *sql.Tx) error {
		rows, err := tx.Query("SELECT id FROM activities WHERE plant_id = ? ORDER BY rowid", id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var activityID string
			if err := rows.Scan(&activityID); err != nil {
				rows.Close()
				return err
			}
			removed = append(removed, activityID)
		}
		if err := rows.Close(); err != nil {
			return err
		}

		if _, err := tx.Exec("DELETE FROM plants WHERE id = ?", id); err != nil {
			return err
		}
		_, err = tx.Exec("DELETE FROM activities WHERE plant_id = ?", id)
		return err
	})
	if err != nil {
		return nil, storage.Wrap("delete", constants.CollectionPlants, id, err)
	}
	return removed, nil
}
