package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

const favoriteColumns = "id, sequence, song_name, artist_name, album_cover, created_at, updated_at, deleted_at"

// FavoriteRepository implements [models.Repository] for [models.Favorite] persistence.
type FavoriteRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Favorite] = (*FavoriteRepository)(nil)

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create inserts a new favourite with generated ID and sequence.
//
// Saving a song that is already an active favourite fails with [shared.ErrAlreadyExists].
func (r *FavoriteRepository) Create(fav *models.Favorite) error {
	if err := fav.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	key := shared.NormalizeTrackKey(fav.SongName(), fav.ArtistName())
	if existing, err := r.findByKey(key); err == nil {
		return fmt.Errorf("%w: %s is favourite #%d", shared.ErrAlreadyExists, existing.Label(), existing.Sequence())
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO favorites (id, sequence, song_name, artist_name, album_cover, track_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, fav.SongName(), fav.ArtistName(), fav.AlbumCover(), key, fav.CreatedAt(), fav.UpdatedAt())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, fav.Label())
	}
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	fav.SetID(id)
	fav.SetSequence(sequence)
	return nil
}

// Get retrieves a favourite by ID, excluding soft-deleted rows
func (r *FavoriteRepository) Get(id string) (*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE id = ? AND deleted_at IS NULL"

	fav, err := scanFavorite(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: favorite %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}

	return fav, nil
}

// GetBySequence retrieves an active favourite by its sequence number, as shown in listings.
func (r *FavoriteRepository) GetBySequence(sequence int) (*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE sequence = ? AND deleted_at IS NULL"

	fav, err := scanFavorite(r.db.QueryRow(query, sequence))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: favorite #%d", shared.ErrNotFound, sequence)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}

	return fav, nil
}

// FindByTrack retrieves the active favourite for a song/artist pair.
func (r *FavoriteRepository) FindByTrack(song, artist string) (*models.Favorite, error) {
	return r.findByKey(shared.NormalizeTrackKey(song, artist))
}

func (r *FavoriteRepository) findByKey(key string) (*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE track_key = ? AND deleted_at IS NULL"

	fav, err := scanFavorite(r.db.QueryRow(query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: favorite %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}

	return fav, nil
}

// Update refreshes the album cover of an existing favourite. Song and artist identify the favourite and are not changed.
func (r *FavoriteRepository) Update(fav *models.Favorite) error {
	if err := fav.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()

	query := `
		UPDATE favorites
		SET album_cover = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, fav.AlbumCover(), now, fav.ID())
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	if err := expectOneRow(result, fav.ID()); err != nil {
		return err
	}

	fav.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a favourite by ID
func (r *FavoriteRepository) Delete(id string) error {
	query := `
		UPDATE favorites
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves active favourites ordered by sequence.
//
// Supported criteria:
//   - "query" (string): case-insensitive substring match on song or artist
//   - "limit" (int): maximum number of rows
func (r *FavoriteRepository) List(criteria map[string]any) ([]*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE deleted_at IS NULL"
	args := []any{}

	if q, ok := criteria["query"].(string); ok && strings.TrimSpace(q) != "" {
		pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(q))) + "%"
		query += ` AND (LOWER(song_name) LIKE ? ESCAPE '\' OR LOWER(artist_name) LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// Count returns the number of active favourites.
func (r *FavoriteRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM favorites WHERE deleted_at IS NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner) (*models.Favorite, error) {
	var (
		id         string
		sequence   int
		songName   string
		artistName string
		albumCover string
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &songName, &artistName, &albumCover, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	fav := models.NewFavorite(sequence, songName, artistName, albumCover)
	fav.SetID(id)
	fav.SetCreatedAt(createdAt)
	fav.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		fav.SetDeletedAt(&deletedAt.Time)
	}

	return fav, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: favorite not found or already deleted: %s", shared.ErrNotFound, id)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
