package patch

import (
	"fmt"
	"sync"

	"github.com/tebeka/atexit"
)

// Role is the registerVariable role a HyperbolicLevelIntegrator assigns a
// variable (spec.md §4.4): it drives which VariableContext set gets
// allocated and which refine/coarsen rules get registered automatically.
type Role int

const (
	TimeDep Role = iota
	Input
	NoFill
	Flux
	Temporary
)

func (r Role) String() string {
	switch r {
	case TimeDep:
		return "TIME_DEP"
	case Input:
		return "INPUT"
	case NoFill:
		return "NO_FILL"
	case Flux:
		return "FLUX"
	case Temporary:
		return "TEMPORARY"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// VariableContext names one of the storage slots a variable can be
// allocated under (spec.md §4.4: SCRATCH/CURRENT/NEW/OLD). A given
// DescriptorId always belongs to exactly one (Variable, Context) pair.
type VariableContext int

const (
	Scratch VariableContext = iota
	Current
	New
	Old
)

func (c VariableContext) String() string {
	switch c {
	case Scratch:
		return "SCRATCH"
	case Current:
		return "CURRENT"
	case New:
		return "NEW"
	case Old:
		return "OLD"
	default:
		return fmt.Sprintf("VariableContext(%d)", int(c))
	}
}

// DescriptorId is the handle PatchLevel.Allocate/Lookup use to address one
// (variable, context) storage slot across every patch of a level — the
// flattened replacement for the source's PatchDescriptor index table.
type DescriptorId int

// ScalarType is the per-variable numeric type registerVariable accepts
// (spec.md §4.5 "scalar type (int, float, double, complex)"). Integer and
// single/double float variants all store as float64 — only ComplexScalar
// needs a distinct backing array (ComplexArray), since Go has no lossy
// float32/int conversion concerns this domain cares about.
type ScalarType int

const (
	RealScalar ScalarType = iota
	ComplexScalar
)

func (s ScalarType) String() string {
	switch s {
	case RealScalar:
		return "REAL"
	case ComplexScalar:
		return "COMPLEX"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(s))
	}
}

// VariableDescriptor is everything registerVariable needs to remember about
// one user variable: its centering/depth, the ghost width its factories
// allocate with, and (for FLUX variables) the auto-created fluxsum
// companion descriptor.
type VariableDescriptor struct {
	Name       string
	Centering  Centering
	Depth      int
	GhostWidth int
	Role       Role
	Scalar     ScalarType

	// Contexts maps each allocated VariableContext to its DescriptorId.
	Contexts map[VariableContext]DescriptorId

	// FluxSum is set only for Role==Flux: the descriptor id of the
	// auto-created outer-variant flux-integral accumulator (spec.md §4.4
	// "a companion fluxsum outer-variant variable is auto-created").
	FluxSum DescriptorId
	HasFluxSum bool
}

// VariableDatabase is the process-global registry of every descriptor ever
// allocated, mirroring the teacher's pattern of a single long-lived
// registry guarded by a RWMutex (write-locked registration, lock-free-ish
// concurrent reads) and torn down via atexit, grounded on the core
// package's device-registry idiom in the teacher repo.
type VariableDatabase struct {
	mu          sync.RWMutex
	descriptors map[DescriptorId]*VariableDescriptor
	byName      map[string]*VariableDescriptor
	nextId      DescriptorId
}

var defaultDatabase = newVariableDatabase()

func newVariableDatabase() *VariableDatabase {
	db := &VariableDatabase{
		descriptors: make(map[DescriptorId]*VariableDescriptor),
		byName:      make(map[string]*VariableDescriptor),
	}
	atexit.Register(db.teardown)
	return db
}

// DefaultVariableDatabase returns the process-wide registry. A
// HyperbolicLevelIntegrator does not use it: integrator.New gives each
// integrator its own registry from NewVariableDatabase.
func DefaultVariableDatabase() *VariableDatabase { return defaultDatabase }

// NewVariableDatabase builds an independent registry, used by tests that
// must not pollute the process-global one.
func NewVariableDatabase() *VariableDatabase { return newVariableDatabase() }

func (db *VariableDatabase) teardown() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.descriptors = nil
	db.byName = nil
}

// RegisterVariable assigns descriptor ids for every VariableContext role
// implies (spec.md §4.4 registerVariable), returning the fully-populated
// VariableDescriptor. Registering the same name twice is fatal: variable
// identity is name-keyed for the lifetime of the database.
func (db *VariableDatabase) RegisterVariable(name string, c Centering, depth, ghostWidth int, role Role) *VariableDescriptor {
	if role == Flux && !c.Kind.IsFluxLike() {
		panic(fmt.Sprintf("patch: FLUX variable %q must be face- or side-centered, got %s", name, c.Kind))
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.byName[name]; exists {
		panic(fmt.Sprintf("patch: variable %q already registered", name))
	}

	vd := &VariableDescriptor{
		Name:       name,
		Centering:  c,
		Depth:      depth,
		GhostWidth: ghostWidth,
		Role:       role,
		Contexts:   make(map[VariableContext]DescriptorId),
	}

	for _, ctx := range contextsForRole(role) {
		vd.Contexts[ctx] = db.allocateLocked()
	}

	if role == Flux {
		outer := outerCenteringOf(c)
		fsum := &VariableDescriptor{
			Name:       name + ".fluxsum",
			Centering:  outer,
			Depth:      depth,
			GhostWidth: 0,
			Role:       Flux,
			Contexts:   map[VariableContext]DescriptorId{Current: db.allocateLocked()},
		}
		id := db.allocateLocked()
		db.descriptors[id] = fsum
		db.byName[fsum.Name] = fsum
		vd.FluxSum = id
		vd.HasFluxSum = true
	}

	id := db.allocateLocked()
	db.descriptors[id] = vd
	db.byName[name] = vd
	return vd
}

// RegisterComplexVariable is RegisterVariable's ComplexScalar counterpart:
// the returned descriptor's contexts are allocated under the same
// DescriptorId scheme, but callers must drive their patch data through
// Patch.AllocateComplex/DataComplex rather than Allocate/Data. FLUX is not
// supported for complex variables (the conservative-coarsen/fluxsum
// machinery is defined only over real-valued fluxes).
func (db *VariableDatabase) RegisterComplexVariable(name string, c Centering, depth, ghostWidth int, role Role) *VariableDescriptor {
	if role == Flux {
		panic(fmt.Sprintf("patch: complex variable %q cannot use FLUX role", name))
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.byName[name]; exists {
		panic(fmt.Sprintf("patch: variable %q already registered", name))
	}

	vd := &VariableDescriptor{
		Name:       name,
		Centering:  c,
		Depth:      depth,
		GhostWidth: ghostWidth,
		Role:       role,
		Scalar:     ComplexScalar,
		Contexts:   make(map[VariableContext]DescriptorId),
	}

	for _, ctx := range contextsForRole(role) {
		vd.Contexts[ctx] = db.allocateLocked()
	}

	id := db.allocateLocked()
	db.descriptors[id] = vd
	db.byName[name] = vd
	return vd
}

func (db *VariableDatabase) allocateLocked() DescriptorId {
	id := db.nextId
	db.nextId++
	return id
}

// Lookup returns the descriptor registered under name.
func (db *VariableDatabase) Lookup(name string) (*VariableDescriptor, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	vd, ok := db.byName[name]
	return vd, ok
}

// contextsForRole is the role -> {context set} table from spec.md §4.4.
func contextsForRole(role Role) []VariableContext {
	switch role {
	case TimeDep:
		return []VariableContext{Scratch, Current, New}
	case Input:
		return []VariableContext{Scratch, Current}
	case NoFill:
		return []VariableContext{Current, Scratch}
	case Flux:
		return []VariableContext{Scratch}
	case Temporary:
		return []VariableContext{Scratch}
	default:
		panic(fmt.Sprintf("patch: unknown variable role %v", role))
	}
}

// outerCenteringOf returns the OuterFace/OuterSide centering matching a
// FLUX variable's Face/Side centering, used for the auto-created fluxsum
// companion.
func outerCenteringOf(c Centering) Centering {
	switch c.Kind {
	case Face:
		return OuterFaceCentering(c.Axis)
	case Side:
		return OuterSideCentering(c.Axis)
	default:
		panic(fmt.Sprintf("patch: outerCenteringOf called on non-flux centering %v", c))
	}
}

// AddThreeTimeLevel adds an OLD context to a TIME_DEP descriptor already
// registered, used when the integrator is configured for 3-time-level
// storage (spec.md §4.4 "plus OLD when 3-time-level").
func (db *VariableDatabase) AddThreeTimeLevel(vd *VariableDescriptor) {
	if vd.Role != TimeDep {
		panic("patch: OLD context only applies to TIME_DEP variables")
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := vd.Contexts[Old]; ok {
		return
	}
	vd.Contexts[Old] = db.allocateLocked()
}
