// Package jsonfile loads restaurants from a scraped JSON dataset, either a
// single array (.json) or one record per line (.jsonl).
package jsonfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/savorly/recommender/internal/domain"
)

// Record is one restaurant as it appears in the dataset.
type Record struct {
	Name           string    `json:"Restaurant Name"`
	PrimaryCuisine string    `json:"Primary Cuisine"`
	OverallRating  flexFloat `json:"Overall Rating"`
	Latitude       flexFloat `json:"Latitude"`
	Longitude      flexFloat `json:"Longitude"`
	LocationID     flexFloat `json:"location_id"`
	Telephone      string    `json:"Telephone"`
	Price          string    `json:"Price"`
	FoodRating     flexFloat `json:"Food Rating"`
	ServiceRating  flexFloat `json:"Service Rating"`
	ValueRating    flexFloat `json:"Value Rating"`
	AmbienceRating flexFloat `json:"Ambience Rating"`
	NoiseLevel     string    `json:"Noise Level"`
	Zone           string    `json:"zone"`
	PhotoURL       string    `json:"Photo Cover"`
	Address        string    `json:"Address"`
	Website        string    `json:"Website"`
	DressCode      string    `json:"Dress Code"`
}

// flexFloat accepts a number, a numeric string, an empty string or null.
type flexFloat struct {
	Value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	f.Value = &v
	return nil
}

// ToRestaurant converts the record. Records without a location ID are
// rejected since busyness predictions key on it.
func (r *Record) ToRestaurant() (domain.Restaurant, bool) {
	if r.LocationID.Value == nil {
		return domain.Restaurant{}, false
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "Unknown"
	}
	return domain.Restaurant{
		Name:           name,
		PrimaryCuisine: strings.TrimSpace(r.PrimaryCuisine),
		OverallRating:  r.OverallRating.Value,
		Latitude:       r.Latitude.Value,
		Longitude:      r.Longitude.Value,
		Zone:           r.Zone,
		Telephone:      r.Telephone,
		Website:        r.Website,
		Price:          strings.TrimSpace(r.Price),
		FoodRating:     r.FoodRating.Value,
		ServiceRating:  r.ServiceRating.Value,
		ValueRating:    r.ValueRating.Value,
		AmbienceRating: r.AmbienceRating.Value,
		NoiseLevel:     r.NoiseLevel,
		PhotoURL:       r.PhotoURL,
		Address:        r.Address,
		LocationID:     int(*r.LocationID.Value),
		DressCode:      r.DressCode,
	}, true
}

// Adapter implements source.Source for a local dataset file.
type Adapter struct {
	path    string
	items   []domain.Restaurant
	skipped int
	loaded  bool
}

// NewAdapter creates a new adapter reading path.
func NewAdapter(path string) *Adapter {
	return &Adapter{path: path}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return "jsonfile:" + filepath.Base(a.path)
}

// Skipped returns how many records were rejected while loading.
func (a *Adapter) Skipped() int {
	return a.skipped
}

// FetchBatch returns up to limit restaurants starting at cursor, which is
// an index into the file's accepted records.
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]domain.Restaurant, string, error) {
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return nil, "", fmt.Errorf("failed to load %s: %w", a.path, err)
		}
		a.loaded = true
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	startIndex := 0
	if cursor != "" {
		var err error
		startIndex, err = strconv.Atoi(cursor)
		if err != nil || startIndex < 0 {
			return nil, "", fmt.Errorf("invalid cursor: %q", cursor)
		}
	}
	if startIndex >= len(a.items) {
		return []domain.Restaurant{}, "", nil
	}
	if limit <= 0 {
		limit = len(a.items)
	}

	endIndex := min(startIndex+limit, len(a.items))
	nextCursor := ""
	if endIndex < len(a.items) {
		nextCursor = strconv.Itoa(endIndex)
	}
	return a.items[startIndex:endIndex], nextCursor, nil
}

func (a *Adapter) loadItems() error {
	file, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer file.Close()

	var records []Record
	if strings.EqualFold(filepath.Ext(a.path), ".jsonl") {
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var rec Record
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				a.skipped++
				continue
			}
			records = append(records, rec)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("error reading lines: %w", err)
		}
	} else if err := json.NewDecoder(file).Decode(&records); err != nil {
		return fmt.Errorf("invalid JSON array: %w", err)
	}

	a.items = make([]domain.Restaurant, 0, len(records))
	for i := range records {
		restaurant, ok := records[i].ToRestaurant()
		if !ok {
			a.skipped++
			continue
		}
		a.items = append(a.items, restaurant)
	}
	return nil
}
