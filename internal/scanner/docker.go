package scanner

import (
	"context"
	"time"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// DockerRoot is the display root of the virtual image namespace.
const DockerRoot = "Docker"

// DockerScanner lists dangling container images as virtual items.
type DockerScanner struct {
	client *container.Client
}

// NewDockerScanner uses client to reach the container runtime
func NewDockerScanner(client *container.Client) *DockerScanner {
	return &DockerScanner{client: client}
}

func (s *DockerScanner) Category() types.Category { return types.DockerImages }

func (s *DockerScanner) Description() string {
	return "Unused Docker images (dangling=true)"
}

// Scan returns an empty result when the runtime is missing or the listing
// fails; absence of docker is not an error.
func (s *DockerScanner) Scan(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) types.ScanResult {
	log := logging.Named("scanner.docker")
	var items []types.ScannedItem

	if s.client != nil && s.client.Available(ctx) {
		images, err := s.client.ListDangling(ctx)
		if err != nil {
			log.Debug("listing dangling images failed", logging.Err(err))
		}
		now := time.Now()
		for _, img := range images {
			r.Tick()
			path := img.Path()
			if allow.IsAllowed(path) {
				continue
			}
			items = append(items, types.ScannedItem{Path: path, Size: img.Size, Modified: now})
		}
	} else {
		log.Debug("container runtime not available")
	}

	return types.NewScanResult(types.DockerImages, s.Description(), DockerRoot, items)
}
