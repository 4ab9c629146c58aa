package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
)

// Source says where the dataset lives. Path wins over URL when both are set.
type Source struct {
	Path string
	URL  string
}

// String returns the location used for logs and error details.
func (s Source) String() string {
	if s.Path != "" {
		return s.Path
	}
	return s.URL
}

// Load reads and parses the dataset. Any failure is reported as an
// ErrDataset error carrying the source location.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	raw, err := readSource(ctx, src)
	if err != nil {
		return nil, apperrors.DatasetUnavailable(src.String(), err)
	}

	c, err := Parse(raw)
	if err != nil {
		return nil, apperrors.DatasetUnavailable(src.String(), err)
	}

	logging.Debug("dataset loaded", "source", src.String(), "technologies", c.Len())
	return c, nil
}

// Parse decodes a JSON array of technologies. Records without a name are
// dropped with a warning; duplicate names are kept but only the first is
// reachable through Lookup.
func Parse(raw []byte) (*Catalog, error) {
	var items []Technology
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if items == nil {
		return nil, errors.New("parse dataset: expected a JSON array")
	}

	seen := make(map[string]struct{}, len(items))
	kept := items[:0]
	for i, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			logging.Warn("skipping technology without a name", "index", i)
			continue
		}
		key := strings.ToLower(it.Name)
		if _, dup := seen[key]; dup {
			logging.Warn("duplicate technology name", "name", it.Name, "index", i)
		}
		seen[key] = struct{}{}
		if it.Level != "" && !it.Level.Known() {
			logging.Warn("unknown level", "name", it.Name, "level", string(it.Level))
		}
		kept = append(kept, it)
	}

	c := New(kept)
	c.raw = raw
	return c, nil
}

func readSource(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.Path != "":
		return os.ReadFile(src.Path)
	case src.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	default:
		return nil, errors.New("either path or url must be provided")
	}
}
