package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/repositories"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/desertthunder/skytunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// favoriteJSON is the --json shape of a [models.Favorite].
type favoriteJSON struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	SongName   string    `json:"songName"`
	ArtistName string    `json:"artistName"`
	AlbumCover string    `json:"albumCover,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toFavoriteJSON(f *models.Favorite) favoriteJSON {
	return favoriteJSON{
		ID:         f.ID(),
		Sequence:   f.Sequence(),
		SongName:   f.SongName(),
		ArtistName: f.ArtistName(),
		AlbumCover: f.AlbumCover(),
		CreatedAt:  f.CreatedAt(),
	}
}

// FavoritesList prints saved favourites, optionally filtered by --query.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.favorites()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if q := cmd.String("query"); q != "" {
		criteria["query"] = q
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}

	favorites, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]favoriteJSON, len(favorites))
		for i, f := range favorites {
			out[i] = toFavoriteJSON(f)
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(favorites) == 0 {
		return r.writePlain("No favorites yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favorites)))
	for _, f := range favorites {
		r.writePlain("#%-4d %s\n", f.Sequence(), f.Label())
	}
	return nil
}

// FavoritesAdd saves a song given by flags, or the current track with --current.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	var fav *models.Favorite

	if cmd.Bool("current") {
		source, err := r.trackSource()
		if err != nil {
			return err
		}
		u := tasks.FetchTrack(ctx, source, r.logger)
		if u.Err != nil {
			return fmt.Errorf("could not read the current track: %w", u.Err)
		}
		fav = models.FavoriteFromTrack(u.Track)
	} else {
		song, artist := cmd.String("song"), cmd.String("artist")
		if song == "" || artist == "" {
			return fmt.Errorf("%w: --song and --artist are required unless --current is set", shared.ErrMissingArgument)
		}
		fav = models.NewFavorite(0, song, artist, cmd.String("cover"))
	}

	repo, err := r.favorites()
	if err != nil {
		return err
	}
	if err := repo.Create(fav); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}

	r.logger.Info("favorite saved", "id", fav.ID(), "sequence", fav.Sequence())
	return r.writePlain("✓ Saved #%d %s\n", fav.Sequence(), fav.Label())
}

// FavoritesRemove soft-deletes the favourite referenced by "#N", "N" or its ID.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	ref := strings.TrimSpace(cmd.StringArg("ref"))
	if ref == "" {
		return fmt.Errorf("%w: favorite #sequence or ID", shared.ErrMissingArgument)
	}

	repo, err := r.favorites()
	if err != nil {
		return err
	}

	fav, err := lookupFavorite(repo, ref)
	if err != nil {
		return err
	}
	if err := repo.Delete(fav.ID()); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return r.writePlain("✓ Removed #%d %s\n", fav.Sequence(), fav.Label())
}

func lookupFavorite(repo *repositories.FavoriteRepository, ref string) (*models.Favorite, error) {
	if seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}

// FavoritesExport writes favourites in the chosen format to --output, or stdout.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.favorites()
	if err != nil {
		return err
	}

	favorites, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(favorites, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("favorites exported", "count", len(favorites), "path", written)
		return r.writePlain("✓ Exported %d favorites to %s\n", len(favorites), written)
	}

	data, err := formatter.Export(favorites, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
