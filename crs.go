package mapgrid

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twpayne/go-proj/v10"
)

var (
	resolveCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapgrid_resolve_cache_hits_total",
		Help: "The total number of hits on the CRS resolution cache",
	})
	resolveCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapgrid_resolve_cache_misses_total",
		Help: "The total number of misses on the CRS resolution cache",
	})
	transformCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapgrid_transform_cache_hits_total",
		Help: "The total number of hits on the transform pipeline cache",
	})
	transformCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapgrid_transform_cache_misses_total",
		Help: "The total number of misses on the transform pipeline cache",
	})
)

// A Kind classifies a CRS for notation and grid spacing purposes.
type Kind int

const (
	KindGeographic Kind = iota
	KindLinear
	KindTaipowerGrid
	KindTaipowerGridWithLandmarks
)

// A CRS is a coordinate reference system, identified by a display name
// and a definition that is either an authority code such as "EPSG:4326"
// or a raw proj-parameter string. CRS values are immutable and shared by
// pointer for the lifetime of the process.
type CRS struct {
	name       string
	definition string
	projString bool // definition is raw proj parameters rather than an authority code
	kind       Kind
	latFirst   bool // PROJ authority axis order puts latitude first
	codec      MaskCodec
}

const (
	// TWD97 TM2 zone 121 (the parameters of EPSG:3826).
	twd97Definition = "+proj=tmerc +lat_0=0 +lon_0=121 +k=0.9999 +x_0=250000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs +type=crs"
	// TWD67 TM2 zone 121, the system the Taipower grid is defined on.
	twd67Definition = "+proj=tmerc +lat_0=0 +lon_0=121 +k=0.9999 +x_0=250000 +y_0=0 +ellps=aust_SA +towgs84=-750.739,-359.515,-180.510,0.00003863,0.00004723,-0.00004373,0.99998180 +units=m +no_defs +type=crs"
)

var (
	WGS84       = &CRS{name: "WGS84", definition: "EPSG:4326", kind: KindGeographic, latFirst: true}
	TWD97       = &CRS{name: "TWD97", definition: twd97Definition, projString: true, kind: KindLinear}
	WebMercator = &CRS{name: "Web Mercator", definition: "EPSG:3857", kind: KindLinear}
	Taipower    = &CRS{name: "Taipower", definition: twd67Definition, projString: true, kind: KindTaipowerGrid, codec: NewTaipowerCodec()}
)

// NewRescueCRS returns a CRS on the Taipower grid whose mask codec
// decorates grid references with the given landmark names. The landmark
// table is read-only after construction.
func NewRescueCRS(landmarks map[string]string) *CRS {
	return &CRS{
		name:       "Rescue",
		definition: twd67Definition,
		projString: true,
		kind:       KindTaipowerGridWithLandmarks,
		codec:      NewRescueCodec(landmarks),
	}
}

// Name returns c's display name.
func (c *CRS) Name() string {
	return c.name
}

// Definition returns c's definition string.
func (c *CRS) Definition() string {
	return c.definition
}

// Kind returns c's kind.
func (c *CRS) Kind() Kind {
	return c.kind
}

// IsGeographic reports whether c's coordinates are longitude/latitude
// degrees.
func (c *CRS) IsGeographic() bool {
	return c.kind == KindGeographic
}

// IsLinearMeter reports whether c's coordinates are projected meters.
func (c *CRS) IsLinearMeter() bool {
	return c.kind != KindGeographic
}

// SupportsMask reports whether c has a grid-reference mask codec.
func (c *CRS) SupportsMask() bool {
	return c.codec != nil
}

// MaskCodec returns c's mask codec, or nil if c has none.
func (c *CRS) MaskCodec() MaskCodec {
	return c.codec
}

// Equal reports whether c and o denote the same system. Two CRSs are
// equal iff their definition strings and definition kinds are equal;
// identity is otherwise irrelevant.
func (c *CRS) Equal(o *CRS) bool {
	return c.definition == o.definition && c.projString == o.projString
}

type transformKey struct {
	from string
	to   string
}

// A Registry resolves CRS definitions and converts points between
// registered systems. Resolutions and transform pipelines are built at
// most once per distinct definition and cached. A Registry is safe for
// concurrent use.
type Registry struct {
	mutex              sync.Mutex
	resolveCacheSize   int
	transformCacheSize int
	resolveCache       *lru.Cache[string, *proj.PJ]
	transformCache     *lru.Cache[transformKey, *proj.PJ]
}

// A RegistryOption sets an option on a Registry.
type RegistryOption func(*Registry)

func WithResolveCacheSize(resolveCacheSize int) RegistryOption {
	return func(r *Registry) {
		r.resolveCacheSize = resolveCacheSize
	}
}

func WithTransformCacheSize(transformCacheSize int) RegistryOption {
	return func(r *Registry) {
		r.transformCacheSize = transformCacheSize
	}
}

// NewRegistry returns a new Registry with the given options.
func NewRegistry(options ...RegistryOption) (*Registry, error) {
	r := &Registry{
		resolveCacheSize:   16,
		transformCacheSize: 16,
	}
	for _, option := range options {
		option(r)
	}

	var err error
	r.resolveCache, err = lru.New[string, *proj.PJ](r.resolveCacheSize)
	if err != nil {
		return nil, err
	}
	r.transformCache, err = lru.New[transformKey, *proj.PJ](r.transformCacheSize)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve validates crs's definition against the projection engine. It
// returns ErrUnresolvableCRS if the authority code is unknown or the
// parameter string is malformed.
func (r *Registry) Resolve(crs *CRS) error {
	_, err := r.resolvePJ(crs)
	return err
}

// Convert converts point from one CRS to another. If from and to are
// equal it returns point unchanged, avoiding a needless round trip
// through the projection engine.
func (r *Registry) Convert(point Point, from, to *CRS) (Point, error) {
	if from.Equal(to) {
		return point, nil
	}
	pj, err := r.transform(from, to)
	if err != nil {
		return Point{}, err
	}
	x, y := point.X, point.Y
	if from.latFirst {
		x, y = y, x
	}
	coord, err := pj.Forward(proj.NewCoord(x, y, 0, 0))
	if err != nil {
		return Point{}, fmt.Errorf("%w: %s to %s: %w", ErrTransform, from.name, to.name, err)
	}
	result := Point{X: coord.X(), Y: coord.Y()}
	if to.latFirst {
		result.X, result.Y = result.Y, result.X
	}
	return result, nil
}

// resolvePJ returns the projection object for crs's definition, using the
// cache if possible.
func (r *Registry) resolvePJ(crs *CRS) (*proj.PJ, error) {
	if pj, ok := r.resolveCache.Get(crs.definition); ok {
		resolveCacheHits.Inc()
		return pj, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if pj, ok := r.resolveCache.Get(crs.definition); ok {
		resolveCacheHits.Inc()
		return pj, nil
	}

	resolveCacheMisses.Inc()

	pj, err := proj.New(crs.definition)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvableCRS, crs.name, err)
	}
	r.resolveCache.Add(crs.definition, pj)
	return pj, nil
}

// transform returns the transform pipeline from one CRS to another, using
// the cache if possible.
func (r *Registry) transform(from, to *CRS) (*proj.PJ, error) {
	key := transformKey{from: from.definition, to: to.definition}
	if pj, ok := r.transformCache.Get(key); ok {
		transformCacheHits.Inc()
		return pj, nil
	}

	if _, err := r.resolvePJ(from); err != nil {
		return nil, err
	}
	if _, err := r.resolvePJ(to); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if pj, ok := r.transformCache.Get(key); ok {
		transformCacheHits.Inc()
		return pj, nil
	}

	transformCacheMisses.Inc()

	pj, err := proj.NewCRSToCRS(from.definition, to.definition, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s: %w", ErrTransform, from.name, to.name, err)
	}
	r.transformCache.Add(key, pj)
	return pj, nil
}
