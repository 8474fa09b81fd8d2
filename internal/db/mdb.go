package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// commandRunner runs an external program and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// MDBClient manages access to an Access database through mdbtools
type MDBClient struct {
	path    string
	version string
	run     commandRunner
}

// NewMDBClient checks that the file exists and that mdbtools recognizes it
func NewMDBClient(ctx context.Context, path string) (*MDBClient, error) {
	return newMDBClient(ctx, path, execRunner)
}

func newMDBClient(ctx context.Context, path string, run commandRunner) (*MDBClient, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	out, err := run(ctx, "mdb-ver", path)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("mdbtools is not installed: %w", err)
		}
		return nil, fmt.Errorf("not a readable Access database: %w", err)
	}

	return &MDBClient{path: path, version: strings.TrimSpace(string(out)), run: run}, nil
}

// Version returns the Jet/ACE format reported by mdb-ver, e.g. JET4
func (c *MDBClient) Version() string {
	return c.version
}

// Path returns the database file path
func (c *MDBClient) Path() string {
	return c.path
}

// Close releases the client. mdbtools holds no handle between calls.
func (c *MDBClient) Close() error {
	return nil
}

func (c *MDBClient) tool(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.run(ctx, name, args...)
}
