package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
)

const activityColumns = "id, plant_id, type, date, note, photo_data"

func scanActivity(row rowScanner) (models.Activity, error) {
	var a models.Activity
	var activityType string
	if err := row.Scan(&a.ID, &a.PlantID, &activityType, &a.Date, &a.Note, &a.PhotoData); err != nil {
		return models.Activity{}, err
	}
	a.Type = models.ActivityType(activityType)
	return a, nil
}

func (s *Store) queryActivities(query string, args ...any) ([]models.Activity, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) GetActivity(id string) (models.Activity, error) {
	if err := s.ready(); err != nil {
		return models.Activity{}, storage.Wrap("get", constants.CollectionActivities, id, err)
	}

	row := s.db.QueryRow("SELECT "+activityColumns+" FROM activities WHERE id = ?", id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, fmt.Errorf("activity %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Activity{}, storage.Wrap("get", constants.CollectionActivities, id, err)
	}
	return a, nil
}

func (s *Store) GetAllActivities() ([]models.Activity, error) {
	if err := s.ready(); err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionActivities, "", err)
	}

	activities, err := s.queryActivities("SELECT " + activityColumns + " FROM activities ORDER BY rowid")
	if err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionActivities, "", err)
	}
	return activities, nil
}

func (s *Store) GetActivitiesByIndex(index, value string) ([]models.Activity, error) {
	var column string
	switch index {
	case constants.IndexActivitiesByPlant:
		column = "plant_id"
	case constants.IndexActivitiesByDate:
		column = "date"
	default:
		return nil, fmt.Errorf("activities index %q: %w", index, storage.ErrUnknownIndex)
	}
	if err := s.ready(); err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionActivities, "", err)
	}

	query := "SELECT " + activityColumns + " FROM activities"
	var args []any
	if value != "" {
		query += " WHERE " + column + " = ?"
		args = append(args, value)
	}
	query += " ORDER BY " + column + ", rowid"

	activities, err := s.queryActivities(query, args...)
	if err != nil {
		return nil, storage.Wrap("getAll", constants.CollectionActivities, index, err)
	}
	return activities, nil
}

func (s *Store) PutActivity(a models.Activity) error {
	if err := s.ready(); err != nil {
		return storage.Wrap("put", constants.CollectionActivities, a.ID, err)
	}

	_, err := s.db.Exec(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plant_id = excluded.plant_id,
			type = excluded.type,
			date = excluded.date,
			note = excluded.note,
			photo_data = excluded.photo_data`,
		a.ID, a.PlantID, string(a.Type), a.Date, a.Note, a.PhotoData,
	)
	return storage.Wrap("put", constants.CollectionActivities, a.ID, err)
}

func (s *Store) DeleteActivity(id string) error {
	if err := s.ready(); err != nil {
		return storage.Wrap("delete", constants.CollectionActivities, id, err)
	}
	_, err := s.db.Exec("DELETE FROM activities WHERE id = ?", id)
	return storage.Wrap("delete", constants.CollectionActivities, id, err)
}

func (s *Store) ClearActivities() error {
	if err := s.ready(); err != nil {
		return storage.Wrap("clear", constants.CollectionActivities, "", err)
	}
	_, err := s.db.Exec("DELETE FROM activities")
	return storage.Wrap("clear", constants.CollectionActivities, "", err)
}
