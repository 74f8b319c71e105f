package sim

// AssetKind identifies what a visual handle stands for.
type AssetKind int

const (
	AssetBuilding AssetKind = iota
	AssetVehicle
	AssetDrone
)

// AssetHandle is the future returned by a visual instantiation request.
// The render host resolves it whenever loading finishes, possibly many
// frames later and possibly from a loader goroutine; the resolution is
// queued and applied inside the tick loop, so simulation state only ever
// changes at the fixed drain point.
type AssetHandle struct {
	Kind AssetKind
	ID   int // building ID, or 0 for vehicle/drone

	pool *AssetPool
}

// Resolve delivers the loaded visual. Safe to call from any goroutine.
// A nil visual means the load failed; the placeholder simply stays.
func (h *AssetHandle) Resolve(visual any) {
	if visual == nil {
		return
	}
	select {
	case h.pool.completions <- assetCompletion{handle: h, visual: visual}:
	default:
		// Queue full: drop and keep the placeholder. Never blocks a
		// loader goroutine on the simulation.
	}
}

type assetCompletion struct {
	handle *AssetHandle
	visual any
}

// AssetPool tracks outstanding visual requests and hands completed ones
// to the tick loop.
type AssetPool struct {
	completions chan assetCompletion
}

// NewAssetPool creates a pool with room for a burst of completions.
func NewAssetPool() *AssetPool {
	return &AssetPool{completions: make(chan assetCompletion, 256)}
}

// Request creates a handle for the host to resolve.
func (p *AssetPool) Request(kind AssetKind, id int) *AssetHandle {
	return &AssetHandle{Kind: kind, ID: id, pool: p}
}

// Drain applies every completed load. Called once per tick at a fixed
// point; apply swaps the placeholder for the resolved visual without
// touching lifecycle state.
func (p *AssetPool) Drain(apply func(kind AssetKind, id int, visual any)) {
	for {
		select {
		case c := <-p.completions:
			apply(c.handle.Kind, c.handle.ID, c.visual)
		default:
			return
		}
	}
}
