package boundary

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Cache keeps recently derived Boundaries so plans flown against the same
// geofence and margins share one set of rings. It is safe for concurrent
// use.
type Cache struct {
	geometry Geometry
	entries  *lru.Cache[string, *Boundaries]
}

// NewCache returns a cache holding up to size derived boundaries.
func NewCache(g Geometry, size int) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[string, *Boundaries](size)
	if err != nil {
		return nil, err
	}
	return &Cache{geometry: g, entries: entries}, nil
}

// Derive returns the boundaries for fence and m, deriving them on a miss.
// hit reports whether the result came from the cache. Failed derivations
// are not cached.
func (c *Cache) Derive(fence geo.Ring, m Margins) (b *Boundaries, hit bool, err error) {
	key := cacheKey(fence, m)
	if b, ok := c.entries.Get(key); ok {
		return b, true, nil
	}
	b, err = Derive(c.geometry, fence, m)
	if err != nil {
		return nil, false, err
	}
	c.entries.Add(key, b)
	return b, false, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func cacheKey(fence geo.Ring, m Margins) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatFloat(m.PrimaryFt, 'g', -1, 64))
	sb.WriteByte('/')
	sb.WriteString(strconv.FormatFloat(m.BufferFt, 'g', -1, 64))
	for _, v := range fence.Vertices() {
		sb.WriteByte(';')
		sb.WriteString(strconv.FormatFloat(v.Lat, 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(v.Lon, 'g', -1, 64))
	}
	return sb.String()
}
