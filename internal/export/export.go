// Package export snapshots the four planner collections into a single
// JSON or YAML document and restores them from one.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/ptm/internal/planner"
)

// DocumentVersion is written into every export and checked on import.
const DocumentVersion = 1

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Document is the on-disk shape of an export.
type Document struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Events     []planner.Event  `json:"events" yaml:"events"`
	Jobs       []planner.Job    `json:"jobs" yaml:"jobs"`
	Todos      []planner.Todo   `json:"todos" yaml:"todos"`
	WeekPlan   planner.WeekPlan `json:"weekplan" yaml:"weekplan"`
}

// Snapshot copies the current state of every collection.
func Snapshot(c *planner.Collections, now time.Time) Document {
	return Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		Events:     c.Events.All(),
		Jobs:       c.Jobs.All(),
		Todos:      c.Todos.All(),
		WeekPlan:   c.Plan.Week(),
	}
}

func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", f)
}

// ErrEmptyDocument is returned by Read when the input holds no document.
var ErrEmptyDocument = errors.New("empty export document")

func Read(r io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return Document{}, fmt.Errorf("unknown format %q", f)
	}
	if errors.Is(err, io.EOF) {
		return Document{}, ErrEmptyDocument
	}
	if err != nil {
		return Document{}, fmt.Errorf("decoding %s: %w", f, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate rejects documents that would put records the planner cannot
// address into the store.
func (d Document) Validate() error {
	if d.Version != DocumentVersion {
		return fmt.Errorf("unsupported export version %d (want %d)", d.Version, DocumentVersion)
	}
	events := idSet{}
	for _, ev := range d.Events {
		if ev.ID == "" || strings.TrimSpace(ev.Title) == "" {
			return fmt.Errorf("event %q: id and title are required", ev.ID)
		}
		if err := events.add("event", ev.ID); err != nil {
			return err
		}
	}
	jobs := idSet{}
	for _, j := range d.Jobs {
		if j.ID == "" || strings.TrimSpace(j.Title) == "" {
			return fmt.Errorf("job %q: id and title are required", j.ID)
		}
		if err := jobs.add("job", j.ID); err != nil {
			return err
		}
		if !j.Status.Valid() {
			return fmt.Errorf("job %q: invalid status %q", j.ID, j.Status)
		}
	}
	todos := idSet{}
	for _, t := range d.Todos {
		if t.ID == "" || strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("todo %q: id and text are required", t.ID)
		}
		if err := todos.add("todo", t.ID); err != nil {
			return err
		}
	}
	// Plan ids are unique across all seven days.
	plan := idSet{}
	for day, items := range d.WeekPlan {
		if !day.Valid() {
			return fmt.Errorf("weekplan: unknown day %q", day)
		}
		for _, it := range items {
			if it.ID == "" || strings.TrimSpace(it.Subject) == "" {
				return fmt.Errorf("weekplan %s item %q: id and subject are required", day, it.ID)
			}
			if it.Day != day {
				return fmt.Errorf("weekplan item %q is filed under %s but has day %q", it.ID, day, it.Day)
			}
			if err := plan.add("weekplan item", it.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

type idSet map[string]struct{}

func (s idSet) add(kind, id string) error {
	if _, dup := s[id]; dup {
		return fmt.Errorf("%s %q: duplicate id", kind, id)
	}
	s[id] = struct{}{}
	return nil
}

// Apply replaces every collection with the document's contents.
func Apply(c *planner.Collections, doc Document) {
	c.Events.Replace(doc.Events)
	c.Jobs.Replace(doc.Jobs)
	c.Todos.Replace(doc.Todos)
	c.Plan.Replace(doc.WeekPlan)
}
