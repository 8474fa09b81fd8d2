// Package provider exposes a database through one of several browsing modes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/merlindb/internal/schema"
)

// ErrNotImplemented is returned by modes whose table parsers do not exist yet.
var ErrNotImplemented = errors.New("not implemented")

// Mode names.
const (
	ModeRaw      = "raw"
	ModeDynalite = "dynalite"
	ModeDevice   = "device"
)

// Provider lists and fetches the tables of one browsing mode.
type Provider interface {
	// Mode is the display name, e.g. "Raw".
	Mode() string
	Description() string
	ListAvailable(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name string) (*schema.Table, error)
	Describe(ctx context.Context, name string) (string, error)
}

// Catalog is the table source behind the raw mode.
type Catalog interface {
	ListTables(ctx context.Context) ([]string, error)
	GetTable(ctx context.Context, name string, validate bool) (*schema.Table, error)
}

// Modes lists the supported mode names.
func Modes() []string {
	return []string{ModeRaw, ModeDynalite, ModeDevice}
}

// New returns the provider for a mode name, matched case-insensitively.
func New(mode string, c Catalog, validate bool) (Provider, error) {
	switch strings.ToLower(mode) {
	case ModeRaw, "":
		return NewRaw(c, validate), nil
	case ModeDynalite:
		return NewDynalite(), nil
	case ModeDevice:
		return NewDevice(), nil
	default:
		return nil, fmt.Errorf("unsupported mode: %s. Available modes: %s", mode, strings.Join(Modes(), ", "))
	}
}

// Supports reports whether p lists name.
func Supports(ctx context.Context, p Provider, name string) (bool, error) {
	names, err := p.ListAvailable(ctx)
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name, nil
}

// placeholder is a mode that can describe its tables but not yet build them.
type placeholder struct {
	mode        string
	description string
	tables      map[string]string
}

func (p *placeholder) Mode() string        { return p.mode }
func (p *placeholder) Description() string { return p.description }

func (p *placeholder) ListAvailable(context.Context) ([]string, error) {
	names := make([]string, 0, len(p.tables))
	for name := range p.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *placeholder) Fetch(ctx context.Context, name string) (*schema.Table, error) {
	desc, err := p.Describe(ctx, name)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s parser for table '%s' (would provide: %s)", ErrNotImplemented, p.mode, name, desc)
}

func (p *placeholder) Describe(ctx context.Context, name string) (string, error) {
	desc, ok := p.tables[name]
	if !ok {
		available, _ := p.ListAvailable(ctx)
		return "", &schema.TableNotFoundError{Name: name, Available: available}
	}
	return desc, nil
}
