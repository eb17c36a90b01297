package blend

import "sync"

// GenFlags filters the flavor enumeration, matching the original's
// GenBlendFlags bitmask.
type GenFlags uint64

const (
	GenDefault           GenFlags = 0
	GenBinaryPrefetch    GenFlags = 1 << 1
	GenOnlyBase          GenFlags = 1 << 3
	GenOnlyEssentialComp GenFlags = 1 << 4
	GenOnlyEssentialFsm  GenFlags = 1 << 5
	GenNoCache           GenFlags = 1 << 6
)

const (
	genEssential  = 1 << 1
	genVectorSize = 1 << 2
)

// DomFsms is the ordered FSM-concurrency domain.
var DomFsms = []int{1, 2, 4, 8, 16, 32}

// DomPrefetch is the ordered prefetch-distance domain.
var DomPrefetch = []int{0, 4, 3, 2, 1}

type compKind struct {
	name  string
	flags uint64
}

// domComp is the ordered compute-kind domain, each tagged essential and/or
// vector_size. avx512 is always included here (this rewrite targets
// portable enumeration, not a build conditioned on host AVX-512 support).
var domComp = []compKind{
	{"scalar", genEssential},
	{"avx512", genEssential},
	{"vector(256)", genVectorSize},
	{"vector(512)", genVectorSize},
	{"vector(1024)", genEssential | genVectorSize},
	{"vector(2048)", genVectorSize},
}

var (
	flavorCacheMu sync.Mutex
	flavorCache   = make(map[GenFlags][]*Config)
)

// Generate enumerates the flavor space under flags, matching the original's
// generate_blends/_generate_blends: FSM x prefetch x compute, with filters
// applied in nesting order, interned and cached keyed by the flag set unless
// GenNoCache is set.
func Generate(flags GenFlags) []*Config {
	useCache := flags&GenNoCache == 0

	if useCache {
		flavorCacheMu.Lock()
		if cached, ok := flavorCache[flags]; ok {
			flavorCacheMu.Unlock()
			return cached
		}
		flavorCacheMu.Unlock()
	}

	var r []*Config

	if flags&GenOnlyBase == 0 {
		r = append(r, NewConfig(defaultConcurrentFsms, "", defaultPrefetch))
	}

	for _, fsms := range DomFsms {
		for _, pref := range DomPrefetch {
			if flags&GenBinaryPrefetch != 0 {
				if pref != 0 && pref != 1 {
					continue
				}
			}
			if flags&GenOnlyBase != 0 {
				// Restrict to prefetch=0 unless fsms==1 (see DESIGN.md: the
				// retrieved C++ source's condition reads inverted relative
				// to both its own doc comment and SPEC_FULL.md's testable
				// OnlyBase enumeration; this follows the spec's contract).
				if pref != 0 && fsms != 1 {
					continue
				}
			}
			if flags&GenOnlyEssentialFsm != 0 {
				if fsms > 8 {
					continue
				}
			}
			for _, comp := range domComp {
				if flags&GenOnlyEssentialComp != 0 {
					if comp.flags&genEssential == 0 {
						continue
					}
				}
				r = append(r, NewConfig(fsms, comp.name, pref))
			}
		}
	}

	if useCache {
		flavorCacheMu.Lock()
		flavorCache[flags] = r
		flavorCacheMu.Unlock()
	}

	return r
}

// ValidBaseToOther is the sole cross-level validity constraint between a
// pipeline's base flavor and a point override: their concurrent_fsms must
// match.
func ValidBaseToOther(base, other *Config) bool {
	return base.ConcurrentFsms == other.ConcurrentFsms
}
