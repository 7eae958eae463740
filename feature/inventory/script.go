package inventory

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Step operations understood by a replay script.
const (
	OpAdd        = "add"
	OpDelete     = "delete"
	OpDeleteType = "delete_type"
	OpDeleteAll  = "delete_all"
	OpUpdate     = "update"
	OpImport     = "import"
	OpRefresh    = "refresh"
)

// Step is one mutation of a replay script. Items are addressed by uuid or,
// when uuid is empty, by name.
type Step struct {
	Op       string     `yaml:"op"`
	UUID     string     `yaml:"uuid,omitempty"`
	Name     string     `yaml:"name,omitempty"`
	ItemType string     `yaml:"item_type,omitempty"`
	Items    []SeedItem `yaml:"items,omitempty"`
	Patch    ItemPatch  `yaml:"patch,omitempty"`
	// Path is a seed document for import steps.
	Path string `yaml:"path,omitempty"`
}

// Script is an ordered list of mutations applied to the mirrored store.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// DecodeScript parses a YAML script.
func DecodeScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// LoadScript reads a YAML script from disk.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	defer f.Close()
	return DecodeScript(f)
}

func (s Step) validate() error {
	switch s.Op {
	case OpAdd:
		if len(s.Items) == 0 {
			return fmt.Errorf("%s without items: %w", s.Op, ErrInvalid)
		}
	case OpDelete, OpUpdate:
		if s.UUID == "" && s.Name == "" {
			return fmt.Errorf("%s needs uuid or name: %w", s.Op, ErrInvalid)
		}
		if s.Op == OpUpdate && s.Patch.Empty() {
			return fmt.Errorf("%s without patch: %w", s.Op, ErrInvalid)
		}
	case OpDeleteType:
		if s.ItemType == "" {
			return fmt.Errorf("%s without item_type: %w", s.Op, ErrInvalid)
		}
	case OpImport:
		if s.Path == "" {
			return fmt.Errorf("%s without path: %w", s.Op, ErrInvalid)
		}
	case OpDeleteAll, OpRefresh:
	default:
		return fmt.Errorf("unknown op %q: %w", s.Op, ErrInvalid)
	}
	return nil
}

// Run applies every step in order and stops at the first failure.
func (s *Script) Run(ctx context.Context, svc *Service) error {
	for i, step := range s.Steps {
		if err := step.apply(ctx, svc); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func (s Step) apply(ctx context.Context, svc *Service) error {
	switch s.Op {
	case OpAdd:
		items, err := Models(s.Items)
		if err != nil {
			return err
		}
		_, err = svc.Import(ctx, items)
		return err
	case OpDelete:
		id, err := s.target(svc)
		if err != nil {
			return err
		}
		return svc.DeleteItem(ctx, id)
	case OpUpdate:
		id, err := s.target(svc)
		if err != nil {
			return err
		}
		_, err = svc.UpdateItem(ctx, id, s.Patch)
		return err
	case OpDeleteType:
		_, err := svc.DeleteItemsByType(ctx, s.ItemType)
		return err
	case OpDeleteAll:
		_, err := svc.DeleteItemsByType(ctx, "")
		return err
	case OpImport:
		seed, err := LoadSeedFile(s.Path)
		if err != nil {
			return err
		}
		items, err := Models(seed.Items)
		if err != nil {
			return err
		}
		_, err = svc.Import(ctx, items)
		return err
	case OpRefresh:
		_, err := svc.Refresh(ctx)
		return err
	}
	return fmt.Errorf("unknown op %q: %w", s.Op, ErrInvalid)
}

func (s Step) target(svc *Service) (string, error) {
	if s.UUID != "" {
		return s.UUID, nil
	}
	item, ok := svc.Find(s.Name)
	if !ok {
		return "", fmt.Errorf("item %q: %w", s.Name, ErrNotFound)
	}
	return item.UUID, nil
}
