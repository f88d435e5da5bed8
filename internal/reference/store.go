package reference

import (
	"fmt"
	"strings"
)

// List selects one of the two reference tables
type List string

const (
	Good List = "good"
	Bad  List = "bad"
)

// ParseList parses a list selector such as a form's listType field
func ParseList(s string) (List, error) {
	switch List(strings.ToLower(strings.TrimSpace(s))) {
	case Good:
		return Good, nil
	case Bad:
		return Bad, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
}

// Store owns the good and bad reference tables for the lifetime of the process
type Store struct {
	Good *Table
	Bad  *Table
}

// Open loads both reference logs. See OpenTable for createMissing.
func Open(goodPath, badPath string, createMissing bool) (*Store, error) {
	good, err := OpenTable(goodPath, createMissing)
	if err != nil {
		return nil, fmt.Errorf("loading good list: %w", err)
	}
	bad, err := OpenTable(badPath, createMissing)
	if err != nil {
		return nil, fmt.Errorf("loading bad list: %w", err)
	}
	return &Store{Good: good, Bad: bad}, nil
}

// Table returns the table for list
func (s *Store) Table(list List) (*Table, error) {
	switch list {
	case Good:
		return s.Good, nil
	case Bad:
		return s.Bad, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownList, list)
}

// Insert adds an entry to the selected list
func (s *Store) Insert(list List, name, description string) (Item, error) {
	t, err := s.Table(list)
	if err != nil {
		return Item{}, err
	}
	return t.Insert(name, description)
}
