package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

// Export formats accepted by [Export] and [WriteExport].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// Formats lists every supported export format.
var Formats = []string{FormatCSV, FormatMarkdown, FormatText}

// ExportToCSV converts favourites to CSV with columns: Sequence, Song, Artist, Album Cover, Saved At
func ExportToCSV(favorites []*models.Favorite) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Song", "Artist", "Album Cover", "Saved At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range favorites {
		record := []string{
			strconv.Itoa(f.Sequence()),
			f.SongName(),
			f.ArtistName(),
			f.AlbumCover(),
			f.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders favourites as a numbered Markdown list, linking album covers when present
func ExportToMarkdown(favorites []*models.Favorite) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorites\n\n")
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(favorites))

	for i, f := range favorites {
		fmt.Fprintf(&buf, "%d. %s - %s", i+1, f.ArtistName(), f.SongName())
		if f.AlbumCover() != "" {
			fmt.Fprintf(&buf, " ([cover](%s))", f.AlbumCover())
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts favourites to plain text
func ExportToText(favorites []*models.Favorite) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Favorites: %d\n\n", len(favorites))
	for i, f := range favorites {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, f.ArtistName(), f.SongName())
	}

	return buf.Bytes(), nil
}

// Export renders favourites in the named format.
func Export(favorites []*models.Favorite, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(favorites)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(favorites)
	case FormatText, "text":
		return ExportToText(favorites)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q (expected one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// WriteExport writes favourites to path in the named format.
//
// Defaults to favorites.{format} in the working directory; parent directories are created.
func WriteExport(favorites []*models.Favorite, format, path string) (string, error) {
	data, err := Export(favorites, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "favorites." + strings.ToLower(format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
