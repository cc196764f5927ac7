// Package container talks to the docker CLI: availability probe, dangling
// image listing and image removal. Images are addressed in the rest of the
// program by virtual paths of the form docker://<id>/<repository:tag>.
package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Scheme prefixes every virtual image path.
const Scheme = "docker://"

const listFormat = "{{.ID}}|{{.Size}}|{{.Repository}}:{{.Tag}}"

// Runner executes a command and returns its separated output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Image is one dangling image as listed by the runtime
type Image struct {
	ID   string
	Size int64
	Name string
}

// Path returns the image's virtual path
func (i Image) Path() string {
	return VirtualPath(i.ID, i.Name)
}

// CommandError is a container command that exited non-zero.
type CommandError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %v\nStdout: %s\nStderr: %s",
		strings.Join(e.Args, " "), e.Err, strings.TrimSpace(e.Stdout), strings.TrimSpace(e.Stderr))
}

func (e *CommandError) Unwrap() error { return e.Err }

// Client wraps the docker binary
type Client struct {
	Binary string
	Runner Runner
}

// NewClient returns a client for the docker binary on PATH.
func NewClient() *Client {
	return &Client{Binary: "docker", Runner: ExecRunner{}}
}

// Available probes the runtime with a version check.
func (c *Client) Available(ctx context.Context) bool {
	_, _, err := c.Runner.Run(ctx, c.Binary, "--version")
	return err == nil
}

// ListDangling lists untagged images. Lines with fewer than two fields are
// ignored; a missing name becomes "<none>".
func (c *Client) ListDangling(ctx context.Context) ([]Image, error) {
	stdout, stderr, err := c.Runner.Run(ctx, c.Binary,
		"images", "-f", "dangling=true", "--format", listFormat)
	if err != nil {
		return nil, &CommandError{
			Args:   []string{c.Binary, "images"},
			Stdout: string(stdout),
			Stderr: string(stderr),
			Err:    err,
		}
	}
	return ParseImages(string(stdout)), nil
}

// Remove deletes one image by id. A non-zero exit is returned as a
// *CommandError carrying the command's stdout and stderr.
func (c *Client) Remove(ctx context.Context, id string) error {
	stdout, stderr, err := c.Runner.Run(ctx, c.Binary, "rmi", id)
	if err != nil {
		return &CommandError{
			Args:   []string{c.Binary, "rmi", id},
			Stdout: string(stdout),
			Stderr: string(stderr),
			Err:    err,
		}
	}
	return nil
}

// ParseImages parses `id|size|repository:tag` lines.
func ParseImages(out string) []Image {
	var images []Image
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		name := "<none>"
		if len(parts) > 2 {
			name = parts[2]
		}
		images = append(images, Image{
			ID:   parts[0],
			Size: ParseSize(parts[1]),
			Name: name,
		})
	}
	return images
}

// VirtualPath builds docker://<id>/<name>.
func VirtualPath(id, name string) string {
	return Scheme + id + "/" + name
}

// IsVirtual reports whether path names a container image
func IsVirtual(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// IDFromPath extracts the image id from a virtual path.
func IDFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, Scheme)
	if !ok {
		return "", false
	}
	id, _, _ := strings.Cut(rest, "/")
	return id, id != ""
}
