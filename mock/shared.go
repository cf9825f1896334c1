package mock

import (
	"errors"

	"github.com/thornwire/ioc"
)

// Core interfaces
type Database interface {
	Ping() error
	IsConnected() bool
}

type Cache interface {
	Get(key string) any
	Put(key string, value any)
}

// MockDB is the default Database implementation used across the suites.
type MockDB struct {
	connected bool
	Closed    bool
}

func NewMockDB() *MockDB {
	return &MockDB{connected: true}
}

func (m *MockDB) Ping() error {
	if !m.connected {
		return errors.New("database not connected")
	}
	return nil
}

func (m *MockDB) IsConnected() bool {
	return m.connected
}

func (m *MockDB) OnShutdown() error {
	m.connected = false
	m.Closed = true
	return nil
}

// MockCache depends on Database through its constructor.
type MockCache struct {
	DB      Database
	entries map[string]any
}

func NewMockCache(db Database) *MockCache {
	return &MockCache{DB: db, entries: make(map[string]any)}
}

func (m *MockCache) Get(key string) any {
	return m.entries[key]
}

func (m *MockCache) Put(key string, value any) {
	m.entries[key] = value
}

// Reporter carries constructors of arity 0, 1 and 2 so the suites can assert
// richest-first selection. Arity records which constructor actually ran.
type Reporter struct {
	DB    Database
	Cache Cache
	Arity int
}

func NewReporter0() *Reporter {
	return &Reporter{Arity: 0}
}

func NewReporter1(db Database) *Reporter {
	return &Reporter{DB: db, Arity: 1}
}

func NewReporter2(db Database, cache Cache) *Reporter {
	return &Reporter{DB: db, Cache: cache, Arity: 2}
}

// Mailer mixes a container-sourced dependency with a positional primitive.
type Mailer struct {
	DB   Database
	Addr string
}

func NewMailer(db Database, addr string) *Mailer {
	return &Mailer{DB: db, Addr: addr}
}

// Flaky always fails its constructor.
type Flaky struct{}

func NewFlaky() (*Flaky, error) {
	return nil, errors.New("flaky construction failed")
}

// Circular dependency pair
type CycleA interface {
	A()
}

type CycleB interface {
	B()
}

type CycleAImpl struct {
	b CycleB
}

func NewCycleA(b CycleB) *CycleAImpl {
	return &CycleAImpl{b: b}
}

func (c *CycleAImpl) A() {}

type CycleBImpl struct {
	a CycleA
}

func NewCycleB(a CycleA) *CycleBImpl {
	return &CycleBImpl{a: a}
}

func (c *CycleBImpl) B() {}

// Closer records teardown calls and can be made to fail.
type Closer struct {
	ShutdownCalls int
	Fail          bool
}

func (c *Closer) OnShutdown() error {
	c.ShutdownCalls++
	if c.Fail {
		return errors.New("shutdown refused")
	}
	return nil
}

// Handler exercises every injection rule: tagged members, a transient
// accessor, a manually wired member, a collection and an untagged member.
type Handler struct {
	DB     Database `inject:""`
	Cache  Cache    `inject:""`
	Note   *ioc.Accessor
	Manual Database `inject:""`
	Tags   []string `inject:""`
	Plain  Database
}

// Base and Derived exercise embedded-struct injection.
type Base struct {
	DB Database `inject:""`
}

type Derived struct {
	Base
	Cache Cache `inject:""`
}

// Loop has an injected member whose resolution cycles.
type Loop struct {
	A CycleA `inject:""`
}
